package batch

import (
	"fmt"
	"math"
)

// Strategy defines how load cases are grouped into partitions
type Strategy int

const (
	BlockPartition Strategy = iota // Consecutive cases
	RoundRobin                     // Distribute cyclically
)

func (s Strategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "round-robin"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts the names printed by String
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "block":
		return BlockPartition, nil
	case "round-robin", "roundrobin":
		return RoundRobin, nil
	}
	return 0, fmt.Errorf("unknown partition strategy %q", name)
}

// Partition is the set of load cases one worker solves, in order
type Partition struct {
	ID    int
	Cases []int
}

// Layout assigns every load case to exactly one partition
type Layout struct {
	Partitions    []Partition
	NumCases      int
	NumPartitions int
	MaxCases      int   // largest partition
	CToP          []int // case k belongs to partition CToP[k]
}

// NewLayout splits numCases cases over at most numPartitions partitions.
// There are never more partitions than cases.
func NewLayout(numCases, numPartitions int, strategy Strategy) (*Layout, error) {
	if numCases < 0 {
		return nil, fmt.Errorf("negative case count %d", numCases)
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	if numPartitions > numCases && numCases > 0 {
		numPartitions = numCases
	}

	cToP := make([]int, numCases)
	switch strategy {
	case BlockPartition:
		perPartition := int(math.Ceil(float64(numCases) / float64(numPartitions)))
		for i := range cToP {
			cToP[i] = i / perPartition
			if cToP[i] >= numPartitions {
				cToP[i] = numPartitions - 1
			}
		}
	case RoundRobin:
		for i := range cToP {
			cToP[i] = i % numPartitions
		}
	default:
		return nil, fmt.Errorf("unknown partition strategy %v", strategy)
	}

	layout := &Layout{
		Partitions:    make([]Partition, numPartitions),
		NumCases:      numCases,
		NumPartitions: numPartitions,
		CToP:          cToP,
	}
	for i := range layout.Partitions {
		layout.Partitions[i].ID = i
	}
	for c, p := range cToP {
		layout.Partitions[p].Cases = append(layout.Partitions[p].Cases, c)
	}
	for _, p := range layout.Partitions {
		if len(p.Cases) > layout.MaxCases {
			layout.MaxCases = len(p.Cases)
		}
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// Validate checks that every case appears in exactly one partition
func (l *Layout) Validate() error {
	seen := make([]bool, l.NumCases)
	for _, p := range l.Partitions {
		for _, c := range p.Cases {
			if c < 0 || c >= l.NumCases {
				return fmt.Errorf("partition %d: case %d out of range", p.ID, c)
			}
			if seen[c] {
				return fmt.Errorf("partition %d: case %d assigned twice", p.ID, c)
			}
			if l.CToP[c] != p.ID {
				return fmt.Errorf("partition %d: case %d mapped to partition %d", p.ID, c, l.CToP[c])
			}
			seen[c] = true
		}
	}
	for c, ok := range seen {
		if !ok {
			return fmt.Errorf("case %d not assigned", c)
		}
	}
	return nil
}

type Stats struct {
	NumPartitions int
	MinCases      int
	MaxCases      int
	AvgCases      float64
	Imbalance     float64 // MaxCases / AvgCases
}

// Statistics computes load balance metrics
func (l *Layout) Statistics() Stats {
	stats := Stats{
		NumPartitions: l.NumPartitions,
		MinCases:      math.MaxInt32,
		AvgCases:      float64(l.NumCases) / float64(l.NumPartitions),
	}
	for _, p := range l.Partitions {
		if len(p.Cases) < stats.MinCases {
			stats.MinCases = len(p.Cases)
		}
		if len(p.Cases) > stats.MaxCases {
			stats.MaxCases = len(p.Cases)
		}
	}
	if stats.AvgCases > 0 {
		stats.Imbalance = float64(stats.MaxCases) / stats.AvgCases
	}
	return stats
}
