package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeEpisode(s EpisodeSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeEpisode(data []byte) (EpisodeSummary, error) {
	var summary EpisodeSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return EpisodeSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return EpisodeSummary{}, err
	}
	return summary, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema %d codec %d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
