package cfevents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryBuiltinsPreregistered(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{
		"CF_TIMER_EVENT", "CF_SECOND_EVENT", "CF_MINUTE_EVENT", "CF_HOUR_EVENT", "CF_DAY_EVENT",
		"CF_SYSTEM_RESET", "CF_SYSTEM_STOP", "CF_HALT", "CF_CONTINUE", "CF_DISABLE",
		"CF_RESET", "CF_TERMINATE", "CF_TERMINATE_SYSTEM", "CF_RESET_SYSTEM",
	} {
		assert.True(t, r.Has(id), "expected %s pre-registered", id)
	}
}

func TestRegistryAddRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Add("WD_PAT", "watchdog pat"))
	assert.Error(t, r.Add("WD_PAT", "again"))
}

func TestRegistryAddRejectsEmptyID(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Add("", "nope"))
}

func TestEventEquality(t *testing.T) {
	a := New("X", map[string]int{"n": 1})
	b := New("X", map[string]int{"n": 1})
	c := New("X", map[string]int{"n": 2})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
