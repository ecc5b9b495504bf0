package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeIsIdempotent(t *testing.T) {
	facts := []Fact{
		{Category: CategoryPayment, Value: "fraud@ybl", Turn: 2},
		{Category: CategoryPhone, Value: "9876543210", Turn: 2},
	}

	s := NewSnapshot()
	s.Merge(facts)
	once := s.Clone()
	s.Merge(facts)

	assert.Equal(t, once, s)
}

func TestMergeKeepsFirstTurnAndAdvancesLastTurn(t *testing.T) {
	s := NewSnapshot()
	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 2}})
	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 5}})

	obs := s[CategoryPayment]["fraud@ybl"]
	assert.Equal(t, 2, obs.FirstTurn)
	assert.Equal(t, 5, obs.LastTurn)
}

func TestMergeIgnoresStaleAndEmptyFacts(t *testing.T) {
	s := NewSnapshot()
	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 5}})

	// an out-of-order replay from an earlier turn must not rewind LastTurn
	s.Merge([]Fact{
		{Category: CategoryPayment, Value: "fraud@ybl", Turn: 3},
		{Category: CategoryPhone, Value: "", Turn: 3},
	})

	obs := s[CategoryPayment]["fraud@ybl"]
	assert.Equal(t, 5, obs.LastTurn)
	assert.False(t, s.Has(CategoryPhone))
}

func TestValuesAreSorted(t *testing.T) {
	s := NewSnapshot()
	s.Merge([]Fact{
		{Category: CategoryPhone, Value: "9999999999", Turn: 1},
		{Category: CategoryPhone, Value: "1234567890", Turn: 1},
		{Category: CategoryPhone, Value: "5555555555", Turn: 2},
	})

	assert.Equal(t, []string{"1234567890", "5555555555", "9999999999"}, s.Values(CategoryPhone))
	assert.Nil(t, s.Values(CategoryBankAccount))
}

func TestConfirmedRequiresReobservationOnLaterTurn(t *testing.T) {
	s := NewSnapshot()
	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 2}})
	assert.False(t, s.Confirmed(CategoryPayment))

	// same turn again: still a single sighting
	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 2}})
	assert.False(t, s.Confirmed(CategoryPayment))

	s.Merge([]Fact{{Category: CategoryPayment, Value: "fraud@ybl", Turn: 4}})
	assert.True(t, s.Confirmed(CategoryPayment))
}

func TestFirstTurn(t *testing.T) {
	s := NewSnapshot()
	assert.Equal(t, -1, s.FirstTurn(CategoryPayment))

	s.Merge([]Fact{
		{Category: CategoryPayment, Value: "a@ybl", Turn: 4},
		{Category: CategoryPayment, Value: "b@ybl", Turn: 2},
	})
	assert.Equal(t, 2, s.FirstTurn(CategoryPayment))
}
