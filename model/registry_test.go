package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-superres/model"
)

func TestRegistry(t *testing.T) {
	fake := model.NewFakeModel(64, 64, 4)
	model.Register(fake)

	tests := []struct {
		name      string
		key       string
		wantFound bool
	}{
		{name: "registered model by name", key: "fake", wantFound: true},
		{name: "unknown model", key: "does-not-exist", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := model.Get(tt.key)
			if tt.wantFound {
				require.NoError(t, err)
				require.Equal(t, tt.key, m.Name())
			} else {
				require.ErrorIs(t, err, model.ErrModelNotFound)
			}
		})
	}

	var found bool
	for _, m := range model.List() {
		if m.Name() == "fake" {
			found = true
		}
	}
	require.True(t, found, "List must include registered models")
}

func TestFakeModelUpscalesSolidColor(t *testing.T) {
	fake := model.NewFakeModel(8, 8, 2)

	in, err := model.NewTensor(3, 8, 8)
	require.NoError(t, err)
	for c := 0; c < 3; c++ {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				in.Set(c, x, y, 0.5)
			}
		}
	}

	pred, err := fake.Predict(in)
	require.NoError(t, err)
	require.True(t, pred.Valid())
	require.Equal(t, 16, pred.Planes.Width)
	require.Equal(t, 16, pred.Planes.Height)
	for c := 0; c < 3; c++ {
		require.InDelta(t, 0.5, pred.Planes.At(c, 15, 15), 1e-6)
	}
}

func TestFakeModelRejectsWrongInputSize(t *testing.T) {
	fake := model.NewFakeModel(8, 8, 2)

	in, err := model.NewTensor(3, 4, 4)
	require.NoError(t, err)

	_, err = fake.Predict(in)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestFakeModelFailureInjection(t *testing.T) {
	fake := model.NewFakeModel(4, 4, 2)
	fake.FailCalls = map[int]bool{1: true}

	in, err := model.NewTensor(3, 4, 4)
	require.NoError(t, err)

	_, err = fake.Predict(in)
	require.NoError(t, err)
	_, err = fake.Predict(in)
	require.Error(t, err)
	_, err = fake.Predict(in)
	require.NoError(t, err)
	require.Equal(t, 3, fake.Calls())
}
