package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"fogreeks/bs"
)

// builds a batch with a realistic spread of strikes and a sprinkling of rows
// that must come back as sentinels
func makeBatch(n int) []RowArgs {
	z := distuv.Normal{Mu: 0.0, Sigma: 0.05, Src: rand.NewSource(11)}
	rng := rand.New(rand.NewSource(13))

	rows := make([]RowArgs, n)
	for i := range rows {
		S := 22000.0 * math.Exp(z.Rand())
		K := math.Round(S/100)*100 + float64(rng.Intn(21)-10)*100
		sigma := 0.15 + 0.40*rng.Float64()
		T := float64(7+rng.Intn(84)) / 365.0
		isCall := i%2 == 0
		args := RowArgs{S: S, K: K, T: T, R: 0.068, Q: 0, IsCall: isCall}
		switch i % 17 {
		case 5:
			args.T = 0 // expired
		case 11:
			args.Price = 0 // missing quote
		default:
			args.Price = bs.Price(isCall, S, K, args.T, args.R, args.Q, sigma)
		}
		rows[i] = args
	}
	return rows
}

func TestSolveBatchMatchesSequential(t *testing.T) {
	rows := makeBatch(3000)
	p := DefaultBrentParams()

	want := make([]float64, len(rows))
	for i, a := range rows {
		want[i] = SolveRow(a, p)
	}

	type testCases struct {
		name      string
		workers   int
		chunkSize int
	}

	for _, test := range []testCases{
		{name: "SINGLE_WORKER", workers: 1, chunkSize: 100},
		{name: "TWO_WORKERS", workers: 2, chunkSize: 250},
		{name: "EIGHT_WORKERS", workers: 8, chunkSize: 7},
		{name: "CHUNK_LARGER_THAN_BATCH", workers: 4, chunkSize: 5000},
		{name: "CHUNK_OF_ONE", workers: 8, chunkSize: 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := SolveBatch(rows, PoolParams{
				Workers:   test.workers,
				ChunkSize: test.chunkSize,
				Brent:     p,
			})
			requireSameValues(t, want, got)
		})
	}
}

func TestSolveBatchDefaults(t *testing.T) {
	rows := makeBatch(101)
	// zero workers and chunk size fall back to defaults instead of erroring
	got := SolveBatch(rows, PoolParams{Brent: DefaultBrentParams()})
	require.Len(t, got, len(rows))

	want := make([]float64, len(rows))
	for i, a := range rows {
		want[i] = SolveRow(a, DefaultBrentParams())
	}
	requireSameValues(t, want, got)
}

func TestSolveBatchSentinelRowsStayLocal(t *testing.T) {
	rows := makeBatch(100)
	got := SolveBatch(rows, PoolParams{Workers: 4, ChunkSize: 10, Brent: DefaultBrentParams()})

	for i, a := range rows {
		if a.T <= 0 || a.Price <= 0 {
			require.True(t, math.IsNaN(got[i]), "row %d should be sentinel", i)
		} else {
			require.False(t, math.IsNaN(got[i]), "row %d should have solved", i)
		}
	}
}

func TestSolveBatchEmpty(t *testing.T) {
	got := SolveBatch(nil, DefaultPoolParams())
	require.Empty(t, got)
}

// element-wise comparison treating NaN==NaN as equal
func requireSameValues(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			require.True(t, math.IsNaN(got[i]), "row %d: want NaN, got %v", i, got[i])
			continue
		}
		require.Equal(t, want[i], got[i], "row %d", i)
	}
}
