package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

const CurrentCodecVersion = 2

var ErrVersionMismatch = errors.New("record version mismatch")

type populationPayload struct {
	CodecVersion int                `json:"codecVersion"`
	Limits       *genome.Limits     `json:"limits,omitempty"`
	Individuals  []IndividualRecord `json:"individuals"`
}

func EncodePopulation(record PopulationRecord) ([]byte, error) {
	return json.Marshal(populationPayload{
		CodecVersion: CurrentCodecVersion,
		Limits:       record.Limits,
		Individuals:  record.Individuals,
	})
}

func DecodePopulation(data []byte) (PopulationRecord, error) {
	var payload populationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return PopulationRecord{}, err
	}
	if payload.CodecVersion != CurrentCodecVersion {
		return PopulationRecord{}, fmt.Errorf("%w: codec=%d", ErrVersionMismatch, payload.CodecVersion)
	}
	return PopulationRecord{Limits: payload.Limits, Individuals: payload.Individuals}, nil
}
