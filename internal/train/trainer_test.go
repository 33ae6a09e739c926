package train

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/HouseAdvisor/internal/autodiff"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/dataset"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/net"
)

func separable(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(dataset.Synthetic(n, rand.NewPCG(17, 3)))
	require.NoError(t, err)
	return ds
}

func TestRunImprovesLoss(t *testing.T) {
	ds := separable(t, 40)
	tr := New(net.New(rand.NewPCG(1, 0)), nil)

	history, err := tr.Run(ds)
	require.NoError(t, err)
	require.Len(t, history, Epochs)

	for i, s := range history {
		assert.Equal(t, i+1, s.Epoch)
		assert.True(t, s.MatchRate >= 0 && s.MatchRate <= 1)
		assert.Greater(t, s.Loss, 0.0)
	}
	assert.Less(t, history[Epochs-1].Loss, history[0].Loss)
}

func TestRunIsDeterministic(t *testing.T) {
	ds := separable(t, 20)

	a, err := New(net.New(rand.NewPCG(5, 5)), nil).Run(ds)
	require.NoError(t, err)
	b, err := New(net.New(rand.NewPCG(5, 5)), nil).Run(ds)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRunEmptyDataset(t *testing.T) {
	ds, err := dataset.New(nil)
	require.NoError(t, err)

	_, err = New(net.New(rand.NewPCG(1, 1)), nil).Run(ds)
	assert.ErrorIs(t, err, dataset.ErrEmpty)
}

type brokenDifferentiator struct{}

var errBroken = errors.New("broken")

func (brokenDifferentiator) Gradients(n *net.Network, x mat.Vector, yt float64) (*net.Params, float64, error) {
	return nil, 0, errBroken
}

func TestRunStopsOnGradientError(t *testing.T) {
	hist := &History{}
	n := net.New(rand.NewPCG(2, 2))
	before := n.Params().Flatten()

	got, err := New(n, brokenDifferentiator{}, hist).Run(separable(t, 4))
	assert.ErrorIs(t, err, errBroken)
	assert.Empty(t, got)
	assert.Empty(t, hist.Epochs)
	assert.Equal(t, before, n.Params().Flatten())
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	hist := &History{}
	_, err := New(net.New(rand.NewPCG(3, 0)), nil, NewLogger(&buf), hist).Run(separable(t, 20))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, Epochs)
	assert.True(t, strings.HasPrefix(lines[0], "1\tloss:"), lines[0])
	assert.Contains(t, lines[Epochs-1], "\teval:")
	assert.Len(t, hist.Epochs, Epochs)
}

func TestCSVLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "progress.csv")

	_, err := New(net.New(rand.NewPCG(4, 0)), nil, NewCSVLogger(filename, false)).Run(separable(t, 20))
	require.NoError(t, err)

	file, err := os.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, Epochs+1)
	assert.Equal(t, []string{"epoch", "loss", "match_rate", "time_seconds"}, records[0])
	assert.Equal(t, "50", records[Epochs][0])
}

func TestCSVLoggerOpenFailure(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "progress.csv")
	n := net.New(rand.NewPCG(6, 0))
	before := n.Params().Flatten()

	_, err := New(n, nil, NewCSVLogger(bad, false)).Run(separable(t, 4))
	require.Error(t, err)
	assert.Equal(t, before, n.Params().Flatten())
}

type recorder struct {
	BaseCallback
	began, ended int
}

func (r *recorder) OnTrainBegin(t *Trainer) error { r.began++; return nil }
func (r *recorder) OnTrainEnd(t *Trainer) error   { r.ended++; return nil }

type refusing struct{ BaseCallback }

var errRefused = errors.New("refused")

func (refusing) OnTrainBegin(t *Trainer) error { return errRefused }

func TestRunEndsStartedCallbacksWhenBeginFails(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "progress.csv")
	csvLog := NewCSVLogger(filename, false)
	rec, late := &recorder{}, &recorder{}

	_, err := New(net.New(rand.NewPCG(7, 0)), nil, rec, csvLog, refusing{}, late).Run(separable(t, 4))
	assert.ErrorIs(t, err, errRefused)

	assert.Equal(t, 1, rec.ended)
	assert.Nil(t, csvLog.file, "csv file left open")
	assert.Equal(t, 0, late.began)
	assert.Equal(t, 0, late.ended)
}

func TestCSVLoggerClosesFileOnHeaderFailure(t *testing.T) {
	const full = "/dev/full"
	if _, err := os.Stat(full); err != nil {
		t.Skip("no /dev/full on this system")
	}

	c := NewCSVLogger(full, false)
	err := c.OnTrainBegin(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
	assert.Nil(t, c.file)
	assert.Nil(t, c.writer)
}

func TestRunWithTapeReportsSameStats(t *testing.T) {
	ds, err := dataset.New([]dataset.Sample{
		{Features: dataset.Features{Rooms: 5, Area: 120, Settlement: dataset.Village, Price: 100000}, Label: 1},
	})
	require.NoError(t, err)

	closed, err := New(net.New(rand.NewPCG(3, 3)), nil).Run(ds)
	require.NoError(t, err)
	tape, err := New(net.New(rand.NewPCG(3, 3)), autodiff.Tape{}).Run(ds)
	require.NoError(t, err)

	require.Len(t, tape, Epochs)
	for i := range closed {
		assert.InDelta(t, closed[i].Loss, tape[i].Loss, 1e-9, "epoch %d", i+1)
		assert.Equal(t, closed[i].MatchRate, tape[i].MatchRate, "epoch %d", i+1)
	}
	assert.Less(t, tape[0].Loss, 1.0)
}
