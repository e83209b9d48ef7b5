package ir

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// The canonical encoding is a wire contract: any byte change invalidates
// every stored digest. Golden files pin the exact bytes.
func TestCanonicalEncodingGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	sample := VObject{
		"steps":  VArray{VInt(1), VInt(2)},
		"name":   VString("pulse"),
		"gain":   VFloat(0.5),
		"active": VBool(true),
		"note":   VNull{},
	}
	data, err := MarshalCanonical(sample)
	require.NoError(t, err)
	g.Assert(t, "canonical-const", data)
}

func TestConstPoolEncodingGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	pool := ConstPool{
		VFloat(2),
		VInt(2),
		Vec2(0.25, -1),
		RGBA(1, 0, 0, 1),
		VNull{},
	}
	data, err := pool.MarshalJSON()
	require.NoError(t, err)
	g.Assert(t, "const-pool", data)
}
