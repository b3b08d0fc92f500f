package pool_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/momentics/hioload-nus/pool"
)

func TestByteRingPutGetOrder(t *testing.T) {
	r := pool.NewByteRing(16)
	chunks := [][]byte{[]byte("abc"), []byte("defgh"), []byte("ij"), []byte("klmnop")}
	var want []byte
	for _, c := range chunks {
		if n := r.Put(c); n != len(c) {
			t.Fatalf("Put accepted %d of %d", n, len(c))
		}
		want = append(want, c...)
	}
	got := make([]byte, len(want))
	if n := r.Get(got); n != len(want) {
		t.Fatalf("Get returned %d, want %d", n, len(want))
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if r.Len() != 0 {
		t.Fatalf("ring not empty: %d", r.Len())
	}
}

func TestByteRingPartialPut(t *testing.T) {
	r := pool.NewByteRing(8)
	if n := r.Put([]byte("12345")); n != 5 {
		t.Fatalf("first Put = %d", n)
	}
	if n := r.Put([]byte("6789AB")); n != 3 {
		t.Fatalf("second Put = %d, want 3", n)
	}
	if n := r.Put([]byte("x")); n != 0 {
		t.Fatalf("Put into full ring = %d", n)
	}
	got := make([]byte, 16)
	n := r.Get(got)
	if string(got[:n]) != "12345678" {
		t.Fatalf("got %q", got[:n])
	}
}

func TestByteRingWrapAround(t *testing.T) {
	r := pool.NewByteRing(10)
	buf := make([]byte, 10)
	r.Put([]byte("0123456"))
	r.Get(buf[:5])
	if n := r.Put([]byte("789abcde")); n != 8 {
		t.Fatalf("wrapping Put = %d, want 8", n)
	}
	n := r.Get(buf)
	if string(buf[:n]) != "56789abcde" {
		t.Fatalf("got %q", buf[:n])
	}
}

func TestByteRingClaimCommit(t *testing.T) {
	r := pool.NewByteRing(8)
	r.Put([]byte("abcdef"))
	view := r.Claim(4)
	if string(view) != "abcd" {
		t.Fatalf("claim = %q", view)
	}
	r.Commit(3)
	buf := make([]byte, 8)
	n := r.Get(buf)
	if string(buf[:n]) != "def" {
		t.Fatalf("after commit got %q", buf[:n])
	}
}

func TestByteRingClaimStopsAtWrap(t *testing.T) {
	r := pool.NewByteRing(8)
	buf := make([]byte, 8)
	r.Put([]byte("abcdef"))
	r.Get(buf[:5])
	r.Put([]byte("ghij"))
	// queued: f g h | i j, backing array wraps after h
	view := r.Claim(8)
	if string(view) != "fgh" {
		t.Fatalf("first claim = %q", view)
	}
	r.Commit(len(view))
	view = r.Claim(8)
	if string(view) != "ij" {
		t.Fatalf("second claim = %q", view)
	}
	r.Commit(len(view))
	if r.Len() != 0 {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestByteRingEmptyClaimNeedsNoCommit(t *testing.T) {
	r := pool.NewByteRing(4)
	if v := r.Claim(4); len(v) != 0 {
		t.Fatalf("claim on empty ring = %q", v)
	}
	r.Put([]byte("z"))
	if v := r.Claim(0); len(v) != 0 {
		t.Fatalf("zero-length claim = %q", v)
	}
	if v := r.Claim(4); string(v) != "z" {
		t.Fatalf("claim = %q", v)
	}
	r.Commit(1)
}

func TestByteRingCommitBeyondClaimPanics(t *testing.T) {
	r := pool.NewByteRing(8)
	r.Put([]byte("abc"))
	v := r.Claim(2)
	defer func() {
		if recover() == nil {
			t.Fatal("commit beyond claim must panic")
		}
	}()
	r.Commit(len(v) + 1)
}

func TestByteRingDoubleClaimPanics(t *testing.T) {
	r := pool.NewByteRing(8)
	r.Put([]byte("abc"))
	r.Claim(1)
	defer func() {
		if recover() == nil {
			t.Fatal("second claim before commit must panic")
		}
	}()
	r.Claim(1)
}

// Randomized put/get/claim sequences against a slice model.
func TestByteRingPropertyBased(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		capacity := 1 + rnd.Intn(64)
		r := pool.NewByteRing(capacity)
		var model []byte
		var next byte
		for i := 0; i < 5000; i++ {
			switch rnd.Intn(3) {
			case 0:
				p := make([]byte, rnd.Intn(capacity+4))
				for j := range p {
					p[j] = next
					next++
				}
				before := r.Len()
				n := r.Put(p)
				if n+before > capacity {
					t.Fatalf("seed %d: put overflowed: %d+%d > %d", seed, n, before, capacity)
				}
				if want := min(len(p), capacity-before); n != want {
					t.Fatalf("seed %d: put accepted %d, want %d", seed, n, want)
				}
				model = append(model, p[:n]...)
				next -= byte(len(p) - n)
			case 1:
				p := make([]byte, rnd.Intn(capacity+4))
				n := r.Get(p)
				if n != min(len(p), len(model)) || !bytes.Equal(p[:n], model[:n]) {
					t.Fatalf("seed %d: get mismatch", seed)
				}
				model = model[n:]
			case 2:
				v := r.Claim(rnd.Intn(capacity + 1))
				if len(v) > len(model) || !bytes.Equal(v, model[:len(v)]) {
					t.Fatalf("seed %d: claim exposed wrong bytes", seed)
				}
				k := 0
				if len(v) > 0 {
					k = rnd.Intn(len(v) + 1)
				}
				r.Commit(k)
				model = model[k:]
			}
			if r.Len() != len(model) || r.Free() != capacity-len(model) {
				t.Fatalf("seed %d: len %d, model %d", seed, r.Len(), len(model))
			}
		}
	}
}

func BenchmarkByteRingPutGet(b *testing.B) {
	r := pool.NewByteRing(1024)
	in := make([]byte, 20)
	out := make([]byte, 20)
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Put(in)
		r.Get(out)
	}
}

func BenchmarkByteRingClaimCommit(b *testing.B) {
	r := pool.NewByteRing(1024)
	in := make([]byte, 20)
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Put(in)
		r.Commit(len(r.Claim(len(in))))
	}
}
