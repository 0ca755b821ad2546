package entity

import "fmt"

// Stage is the position of a lead in the sales pipeline.
type Stage string

const (
	StageContact     Stage = "contacto"
	StageQuote       Stage = "cotizacion"
	StageNegotiation Stage = "negociacion"
	StageWon         Stage = "cierre_ganado"
	StageLost        Stage = "cierre_perdido"
)

// StageInfo is the static display configuration of a stage.
type StageInfo struct {
	Key   Stage  `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var stageOrder = []Stage{StageContact, StageQuote, StageNegotiation, StageWon, StageLost}

var stageTable = map[Stage]StageInfo{
	StageContact:     {Key: StageContact, Label: "Contacto", Color: "bg-info"},
	StageQuote:       {Key: StageQuote, Label: "Cotización", Color: "bg-warning"},
	StageNegotiation: {Key: StageNegotiation, Label: "Negociación", Color: "bg-accent"},
	StageWon:         {Key: StageWon, Label: "Cierre Ganado", Color: "bg-success"},
	StageLost:        {Key: StageLost, Label: "Cierre Perdido", Color: "bg-destructive"},
}

// Stages returns the pipeline stages in board order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// StageInfos returns the display table in board order.
func StageInfos() []StageInfo {
	out := make([]StageInfo, 0, len(stageOrder))
	for _, s := range stageOrder {
		out = append(out, stageTable[s])
	}
	return out
}

func (s Stage) Valid() bool {
	_, ok := stageTable[s]
	return ok
}

// Info returns the display configuration. Unknown stages get their raw key as label.
func (s Stage) Info() StageInfo {
	if info, ok := stageTable[s]; ok {
		return info
	}
	return StageInfo{Key: s, Label: string(s)}
}

func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("etapa desconocida: %q", raw)
	}
	return s, nil
}

// CanTransition reports whether a lead in stage from may be moved to stage to.
// Any stage can reach any other: reps move leads backwards and jump straight
// to a closing stage.
func CanTransition(from, to Stage) bool {
	return to.Valid()
}

// Transitions lists the stages offered as move targets for a lead in stage from.
func Transitions(from Stage) []Stage {
	out := make([]Stage, 0, len(stageOrder))
	for _, s := range stageOrder {
		if s != from && CanTransition(from, s) {
			out = append(out, s)
		}
	}
	return out
}
