package errstack_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WrapsSentinel(t *testing.T) {
	es := errstack.New(errstack.ErrName, "box: unknown identifier")
	require.Error(t, es)
	assert.True(t, errors.Is(es, errstack.ErrName))
	assert.False(t, errors.Is(es, errstack.ErrType))
}

func TestPush_AccumulatesFrames(t *testing.T) {
	es := errstack.New(errstack.ErrType, "box(radius): expected Numeric, got String")
	es = errstack.Push(es, "while resolving call to box")
	es = errstack.Push(es, "while evaluating program")

	frames := es.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, "while evaluating program", frames[0].Message)
	assert.Equal(t, "while resolving call to box", frames[1].Message)
	assert.Equal(t, "box(radius): expected Numeric, got String", frames[2].Message)
}

func TestPush_OnNilIsNoop(t *testing.T) {
	var es *errstack.ErrorStack
	assert.Nil(t, errstack.Push(es, "context"))
}

func TestError_JoinsOutermostFirst(t *testing.T) {
	es := errstack.New(errstack.ErrRuntime, "division by zero")
	es = errstack.Push(es, "in mod(10, 0)")
	assert.Equal(t, "in mod(10, 0): division by zero", es.Error())
}

func TestNewTopology_CarriesDetail(t *testing.T) {
	es := errstack.NewTopology(errstack.TopologyDetail{
		Kind:      errstack.NonManifoldEdge,
		FaceCount: 3,
	}, "edge shared by 3 faces")

	detail, ok := errstack.TopologyDetailOf(es)
	require.True(t, ok)
	assert.Equal(t, errstack.NonManifoldEdge, detail.Kind)
	assert.Equal(t, 3, detail.FaceCount)
	assert.True(t, errors.Is(es, errstack.ErrTopology))
}
