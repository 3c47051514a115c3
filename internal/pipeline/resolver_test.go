package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTickers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{" aapl, MSFT ,", []string{"AAPL", "MSFT"}},
		{"spy", []string{"SPY"}},
		{"", nil},
		{" , ,", nil},
		{"a,a", []string{"A", "A"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTickers(tt.in), "input %q", tt.in)
	}
}

func TestResolver(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }
	defaults := []string{"SPY", "QQQ"}

	tests := []struct {
		name     string
		value    string
		explicit bool
		tty      func() bool
		input    string
		want     []string
		prompted bool
	}{
		{name: "explicit", value: "msft, goog", explicit: true, tty: yes, want: []string{"MSFT", "GOOG"}},
		{name: "explicit empty", value: "", explicit: true, tty: yes, want: nil},
		{name: "non-interactive", tty: no, want: defaults},
		{name: "interactive input", tty: yes, input: "nvda,amd\n", want: []string{"NVDA", "AMD"}, prompted: true},
		{name: "interactive blank", tty: yes, input: "\n", want: defaults, prompted: true},
		{name: "interactive eof", tty: yes, input: "", want: defaults, prompted: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := &Resolver{In: strings.NewReader(tt.input), Out: &out, Interactive: tt.tty, Defaults: defaults}
			assert.Equal(t, tt.want, r.Resolve(tt.value, tt.explicit))
			assert.Equal(t, tt.prompted, strings.Contains(out.String(), "leave blank for defaults: SPY,QQQ"))
		})
	}
}

func TestStamp(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "20240506T060809Z", Stamp(at))
}

func TestInNotebook(t *testing.T) {
	t.Setenv("JPY_PARENT_PID", "")
	assert.False(t, InNotebook())
	t.Setenv("JPY_PARENT_PID", "1234")
	assert.True(t, InNotebook())
}
