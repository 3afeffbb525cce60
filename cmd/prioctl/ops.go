package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"prio-field/codec"
	"prio-field/field"
	"prio-field/internal/store"
	"prio-field/prng"
	"prio-field/proof"
	"prio-field/share"
)

// fieldOps is implemented once per field so subcommands can pick the field at run time.
type fieldOps interface {
	elemBytes() int
	split(e *env, batch string, values []string, numShares int) error
	reconstruct(e *env, db *store.DB, batch string) error
	roots(e *env)
	layout(e *env, dim int) error
	sample(e *env) error
}

type ops[D field.Descriptor] struct{}

func opsFor(width int) (fieldOps, error) {
	switch width {
	case 32:
		return ops[field.P32]{}, nil
	case 64:
		return ops[field.P64]{}, nil
	case 80:
		return ops[field.P80]{}, nil
	case 126:
		return ops[field.P126]{}, nil
	}
	return nil, fmt.Errorf("unsupported field width %d", width)
}

// opsForBytes selects a field by its encoded element size.
func opsForBytes(n int) (fieldOps, error) {
	for _, w := range []int{32, 64, 80, 126} {
		o, _ := opsFor(w)
		if o.elemBytes() == n {
			return o, nil
		}
	}
	return nil, fmt.Errorf("no field encodes elements in %d bytes", n)
}

func (ops[D]) elemBytes() int { return field.Bytes[D]() }

func (ops[D]) newPRNG(e *env) (*prng.PRNG[D], error) {
	if e.cfg.Key != "" {
		e.log.Warn("using a keyed PRNG; shares are reproducible")
		return prng.NewKeyed[D]([]byte(e.cfg.Key))
	}
	return prng.New[D]()
}

func parseValues[D field.Descriptor](values []string) ([]field.Elem[D], error) {
	out := make([]field.Elem[D], len(values))
	for i, s := range values {
		x, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: not a decimal integer", s)
		}
		if x.Sign() < 0 || x.Cmp(field.Modulus[D]()) >= 0 {
			return nil, fmt.Errorf("invalid argument %q: outside [0, %v)", s, field.Modulus[D]())
		}
		out[i] = field.FromBig[D](x)
	}
	return out, nil
}

func (o ops[D]) split(e *env, batch string, values []string, numShares int) error {
	defer e.rec.Track(time.Now(), "split")
	in, err := parseValues[D](values)
	if err != nil {
		return err
	}
	p, err := o.newPRNG(e)
	if err != nil {
		return err
	}
	shares, err := share.SplitWith(p, in, numShares)
	if err != nil {
		return err
	}
	db, err := e.openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	for i, s := range shares {
		if err := store.PutShare(db, batch, i, s); err != nil {
			return err
		}
		sum := proof.Digest(s)
		fmt.Fprintf(e.out, "share %d: %x\n", i, sum[:8])
	}
	e.log.Info("stored shares",
		zap.String("batch", batch),
		zap.Int("shares", numShares),
		zap.Int("elements", len(in)),
		zap.Uint64("rejections", p.Stats().Rejections))
	return nil
}

func (ops[D]) reconstruct(e *env, db *store.DB, batch string) error {
	defer e.rec.Track(time.Now(), "reconstruct")
	shares, err := store.LoadShares[D](db, batch)
	if err != nil {
		return err
	}
	sum, err := share.Reconstruct(shares)
	if err != nil {
		return err
	}
	e.log.Info("reconstructed batch", zap.String("batch", batch), zap.Int("shares", len(shares)))
	strs := make([]string, len(sum))
	for i, x := range sum {
		strs[i] = x.String()
	}
	fmt.Fprintln(e.out, strings.Join(strs, " "))
	return nil
}

func (ops[D]) roots(e *env) {
	fmt.Fprintf(e.out, "modulus    %v\n", field.Modulus[D]())
	fmt.Fprintf(e.out, "bytes      %d\n", field.Bytes[D]())
	fmt.Fprintf(e.out, "generator  %v\n", field.Generator[D]())
	fmt.Fprintf(e.out, "order      %v\n", field.GeneratorOrder[D]())
	for l := 0; ; l++ {
		r, ok := field.Root[D](l)
		if !ok {
			break
		}
		fmt.Fprintf(e.out, "root[%2d]   %v\n", l, r)
	}
}

func (ops[D]) layout(e *env, dim int) error {
	buf := make([]field.Elem[D], proof.ProofLength(dim))
	u, err := proof.UnpackProof(buf, dim)
	if err != nil {
		return err
	}
	nh := len(u.PointsHPacked())
	fmt.Fprintf(e.out, "length     %d\n", len(buf))
	fmt.Fprintf(e.out, "data       [0, %d)\n", len(u.Data()))
	fmt.Fprintf(e.out, "f0         %d\n", dim)
	fmt.Fprintf(e.out, "g0         %d\n", dim+1)
	fmt.Fprintf(e.out, "h0         %d\n", dim+2)
	fmt.Fprintf(e.out, "points_h   [%d, %d)\n", dim+3, dim+3+nh)
	fmt.Fprintf(e.out, "encoded    %d bytes\n", len(codec.Serialize(buf)))
	return nil
}

func (o ops[D]) sample(e *env) error {
	defer e.rec.Track(time.Now(), "sample")
	p, err := o.newPRNG(e)
	if err != nil {
		return err
	}
	draws := make([]field.Elem[D], e.cfg.Sample.Count)
	if err := p.Fill(draws); err != nil {
		return err
	}
	st := p.Stats()
	counts := bucketCounts(draws, sampleBuckets)
	fmt.Fprintf(e.out, "elements   %d\n", len(draws))
	fmt.Fprintf(e.out, "blocks     %d\n", st.Draws)
	fmt.Fprintf(e.out, "rejected   %d (%.4f%%)\n", st.Rejections, 100*float64(st.Rejections)/float64(st.Draws))
	fmt.Fprintf(e.out, "chi2       %.2f (%d buckets)\n", chiSquare(counts, len(draws)), sampleBuckets)

	if e.cfg.Sample.Chart == "" {
		return nil
	}
	f, err := os.Create(e.cfg.Sample.Chart)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()
	title := fmt.Sprintf("Field%d uniform draws", e.cfg.Field)
	if err := renderHistogram(f, title, counts, st); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	e.log.Info("wrote histogram", zap.String("path", e.cfg.Sample.Chart))
	return nil
}
