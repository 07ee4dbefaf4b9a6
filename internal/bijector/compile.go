package bijector

import (
	"errors"
	"fmt"

	"github.com/born-ml/bijectors/internal/parallel"
	"gonum.org/v1/gonum/mat"
)

// DefaultCompileConfig returns the sharding configuration used by Compile
// when the caller has no preference.
func DefaultCompileConfig() parallel.Config {
	return parallel.DefaultConfig()
}

// Compile returns a ForwardFunc that evaluates f on row shards of the batch
// concurrently and stitches the results back together.
//
// Every bijector is row-wise and pure, so the compiled function returns the
// same values as f. It works for inverse functions as well.
func Compile(f ForwardFunc, cfg parallel.Config) ForwardFunc {
	return func(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
		if x == nil {
			return f(p, x)
		}
		n, _ := x.Dims()
		chunks := parallel.Chunks(n, cfg)
		if len(chunks) <= 1 {
			return f(p, x)
		}

		src, ok := x.(*mat.Dense)
		if !ok {
			src = mat.DenseCopyOf(x)
		}
		_, c := src.Dims()

		type shard struct {
			y      *mat.Dense
			logdet *mat.VecDense
			err    error
		}
		shards := make([]shard, len(chunks))
		workers := parallel.Config{Enabled: true, NumWorkers: len(chunks), MinChunkSize: 1}
		parallel.For(len(chunks), func(i int) {
			s, e := chunks[i][0], chunks[i][1]
			y, ld, err := f(p, src.Slice(s, e, 0, c))
			shards[i] = shard{y: y, logdet: ld, err: err}
		}, workers)

		var errs []error
		for i, sh := range shards {
			if sh.err != nil {
				errs = append(errs, fmt.Errorf("rows [%d, %d): %w", chunks[i][0], chunks[i][1], sh.err))
			}
		}
		if len(errs) > 0 {
			return nil, nil, errors.Join(errs...)
		}

		_, d := shards[0].y.Dims()
		out := mat.NewDense(n, d, nil)
		logdet := mat.NewVecDense(n, nil)
		for i, sh := range shards {
			s, e := chunks[i][0], chunks[i][1]
			out.Slice(s, e, 0, d).(*mat.Dense).Copy(sh.y)
			logdet.SliceVec(s, e).(*mat.VecDense).CopyVec(sh.logdet)
		}
		return out, logdet, nil
	}
}
