package resilience

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", eris.New("boom"), false},
		{"explicit transient", NewTransientError(eris.New("boom")), true},
		{"wrapped transient", fmt.Errorf("outer: %w", NewTransientError(eris.New("inner"))), true},
		{"conn reset errno", syscall.ECONNRESET, true},
		{"conn refused errno", syscall.ECONNREFUSED, true},
		{"reset by peer text", eris.New("read tcp: connection reset by peer"), true},
		{"io timeout text", eris.New("dial tcp: i/o timeout"), true},
		{"pg starting up", eris.New("FATAL: the database system is starting up"), true},
		{"sqlite busy", eris.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"constraint violation", eris.New("UNIQUE constraint failed: companies.id"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := eris.New("inner")
	te := NewTransientError(inner)
	assert.Equal(t, inner, te.Unwrap())
	assert.Equal(t, "inner", te.Error())
}
