package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSubject(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    bool
	}{
		{"search.abc.results", "search.abc.results", true},
		{"search.abc.results", "search.abc.error", false},
		{"search.*.results", "search.abc.results", true},
		{"search.*", "search.abc.results", false},
		{"search.abc.>", "search.abc.results", true},
		{"search.abc.>", "search.abc", false},
		{"search.abc.results", "search.abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, matchSubject(tt.pattern, tt.subject))
		})
	}
}

func TestLocalBus_PublishSubscribe(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	var got []string
	sub, err := bus.Subscribe(Subject("search", "s1", ">"), func(subject string, data []byte) {
		got = append(got, subject+"="+string(data))
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish("search.s1.results", []byte("a")))
	require.NoError(t, bus.Publish("search.s2.results", []byte("b")))
	require.NoError(t, bus.Publish("search.s1.error", []byte("c")))

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, bus.Publish("search.s1.results", []byte("d")))

	assert.Equal(t, []string{"search.s1.results=a", "search.s1.error=c"}, got)
}

func TestLocalBus_Closed(t *testing.T) {
	bus := NewLocalBus()
	bus.Close()

	assert.ErrorIs(t, bus.Publish("x", nil), ErrClosed)
	_, err := bus.Subscribe("x", func(string, []byte) {})
	assert.ErrorIs(t, err, ErrClosed)
}
