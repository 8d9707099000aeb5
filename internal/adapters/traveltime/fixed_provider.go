package traveltime

import (
	"darp-checker/internal/domain"
	"fmt"
)

type FixedPair struct {
	From, To int
	Seconds  int
}

// FixedProvider answers travel times from an explicit pair table.
// Travel between a node and itself is zero unless listed.
type FixedProvider struct {
	m map[[2]int]int
}

func NewFixedProvider(pairs []FixedPair) *FixedProvider {
	m := make(map[[2]int]int, len(pairs))
	for _, p := range pairs {
		m[[2]int{p.From, p.To}] = p.Seconds
	}
	return &FixedProvider{m: m}
}

func (p *FixedProvider) TravelTime(from domain.Node, to domain.Node) (int, error) {
	s, ok := p.m[[2]int{from.Idx, to.Idx}]
	if !ok {
		if from.Idx == to.Idx {
			return 0, nil
		}
		return 0, fmt.Errorf("missing pair %d -> %d", from.Idx, to.Idx)
	}

	return s, nil
}
