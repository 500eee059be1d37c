package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"bisync/internal/log"
)

var ErrNoAnswer = errors.New("no answer: input is closed")

//Selector decides whether one entry should be copied from one root to the other.
type Selector interface {
	Confirm(relPath, fromRoot, toRoot string) (bool, error)
}

var (
	yesAnswers = map[string]bool{"": true, "y": true, "yes": true}
	noAnswers  = map[string]bool{"n": true, "no": true}
)

//Prompter asks yes/no questions on a line-oriented terminal. An empty answer means yes.
//It blocks until a valid answer is read.
type Prompter struct {
	log      log.Logger
	in       *bufio.Reader
	out      io.Writer
	question *color.Color
}

func NewPrompter(logger log.Logger, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{log: logger, in: bufio.NewReader(in), out: out, question: color.New(color.Bold)}
}

func (p *Prompter) Confirm(relPath, fromRoot, toRoot string) (bool, error) {
	src := filepath.Join(fromRoot, filepath.FromSlash(relPath))
	dst := filepath.Join(toRoot, filepath.FromSlash(relPath))
	return p.ask(fmt.Sprintf("Copy from '%s' to '%s' ?", src, dst))
}

func (p *Prompter) ask(message string) (bool, error) {
	for {
		if _, err := p.question.Fprintf(p.out, "%s [Y/N] ", message); err != nil {
			return false, fmt.Errorf("cannot write question: %w", err)
		}
		line, err := p.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return false, ErrNoAnswer
			}
			return false, fmt.Errorf("cannot read answer: %w", err)
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		switch {
		case yesAnswers[choice]:
			p.log.Debug("answer accepted", log.String("question", message), log.Bool("copy", true))
			return true, nil
		case noAnswers[choice]:
			p.log.Debug("answer accepted", log.String("question", message), log.Bool("copy", false))
			return false, nil
		default:
			p.log.Debug("invalid answer", log.String("answer", choice))
			fmt.Fprintln(p.out, "Please respond with a valid answer.")
		}
	}
}

//Select keeps the paths the selector agrees to copy, in their original order.
func Select(s Selector, fromRoot, toRoot string, relPaths []string) ([]string, error) {
	selected := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		ok, err := s.Confirm(rel, fromRoot, toRoot)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, rel)
		}
	}
	return selected, nil
}
