package messages

import (
	"github.com/google/uuid"
)

type StartInvestigation struct {
	RequestID uuid.UUID
	Goal      string
}

// StepInvestigation is self-sent by the investigator actor to drive one loop
// iteration at a time, keeping the actor responsive to report requests.
type StepInvestigation struct{}

type GetReport struct{}
