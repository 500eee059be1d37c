package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"bisync/internal/log"
)

func init() {
	color.NoColor = true
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        bool
		wantErr     error
		wantRetries int
	}{
		{name: "empty means yes", input: "\n", want: true},
		{name: "y", input: "y\n", want: true},
		{name: "YES with spaces", input: "  YES \n", want: true},
		{name: "n", input: "n\n", want: false},
		{name: "No", input: "No\n", want: false},
		{name: "invalid then no", input: "maybe\nnope\nno\n", want: false, wantRetries: 2},
		{name: "last line without newline", input: "y", want: true},
		{name: "closed input", input: "", wantErr: ErrNoAnswer},
		{name: "closed after invalid", input: "what\n", wantErr: ErrNoAnswer, wantRetries: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requires := require.New(t)
			out := new(bytes.Buffer)
			p := NewPrompter(log.Nop(), strings.NewReader(tt.input), out)

			got, err := p.Confirm("sub/x.txt", "/a", "/b")

			if tt.wantErr != nil {
				requires.ErrorIs(err, tt.wantErr)
			} else {
				requires.NoError(err)
				requires.Equal(tt.want, got)
			}
			requires.Contains(out.String(), "Copy from '/a/sub/x.txt' to '/b/sub/x.txt' ? [Y/N] ")
			requires.Equal(tt.wantRetries, strings.Count(out.String(), "Please respond with a valid answer."))
		})
	}
}

type answers map[string]bool

func (a answers) Confirm(relPath, _, _ string) (bool, error) {
	ok, known := a[relPath]
	if !known {
		return false, errors.New("unexpected question")
	}
	return ok, nil
}

func TestSelect(t *testing.T) {
	requires := require.New(t)

	selected, err := Select(answers{"a": true, "b": false, "c": true}, "/l", "/r", []string{"a", "b", "c"})
	requires.NoError(err)
	requires.Equal([]string{"a", "c"}, selected)

	_, err = Select(answers{"a": true}, "/l", "/r", []string{"a", "zzz"})
	requires.Error(err)
}
