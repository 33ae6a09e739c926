// Package prompt asks a user for a house description and answers with the
// predicted advisability. Each call handles exactly one request.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
)

// ErrInvalidNumber is returned when an answer is not a number.
var ErrInvalidNumber = errors.New("not a number")

// Predictor maps raw features to a probability.
type Predictor interface {
	Predict(f dataset.Features) float64
}

// Session reads answers from in and writes questions and results to out.
type Session struct {
	in  *bufio.Scanner
	out io.Writer
	p   Predictor
}

// NewSession creates a session around p.
func NewSession(in io.Reader, out io.Writer, p Predictor) *Session {
	return &Session{in: bufio.NewScanner(in), out: out, p: p}
}

var questions = [dataset.NumFeatures]string{
	"Number of rooms: ",
	"Area (m2): ",
	"Village (1) or city (2): ",
	"Price: ",
}

// Ask collects one house description, prints the advisability as a
// percentage and returns the probability. It returns io.EOF when input ends
// before the first answer and io.ErrUnexpectedEOF when it ends midway.
func (s *Session) Ask() (float64, error) {
	var answers [dataset.NumFeatures]float64
	for i, q := range questions {
		if _, err := io.WriteString(s.out, q); err != nil {
			return 0, err
		}
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return 0, err
			}
			if i == 0 {
				return 0, io.EOF
			}
			return 0, io.ErrUnexpectedEOF
		}
		text := strings.TrimSpace(s.in.Text())
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
		}
		answers[i] = v
	}

	prob := s.p.Predict(dataset.Features{
		Rooms:      answers[0],
		Area:       answers[1],
		Settlement: answers[2],
		Price:      answers[3],
	})
	if _, err := fmt.Fprintf(s.out, "Buying this house is %.2f%% advisable.\n", prob*100); err != nil {
		return 0, err
	}
	return prob, nil
}
