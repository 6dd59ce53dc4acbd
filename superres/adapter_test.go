package superres

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-superres/model"
)

// stubModel lets tests hand back arbitrary predictions.
type stubModel struct {
	inW, inH int
	predict  func(*model.Tensor) (*model.Prediction, error)
}

func (s *stubModel) Name() string          { return "stub" }
func (s *stubModel) InputSize() (int, int) { return s.inW, s.inH }
func (s *stubModel) Predict(in *model.Tensor) (*model.Prediction, error) {
	return s.predict(in)
}

func TestAdapterPlanesPath(t *testing.T) {
	fake := model.NewFakeModel(16, 16, 2)
	padded := solidImage(16, 16, color.RGBA{120, 60, 30, 255})

	out, err := Adapter{Model: fake}.Apply(padded)
	require.NoError(t, err)
	require.Equal(t, 32, out.Bounds().Dx())
	require.Equal(t, 32, out.Bounds().Dy())
	require.Equal(t, color.RGBA{120, 60, 30, 255}, out.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{120, 60, 30, 255}, out.RGBAAt(31, 31))
}

func TestAdapterPixelsPath(t *testing.T) {
	fake := model.NewFakeModel(16, 16, 2)
	fake.PixelOutput = true
	padded := solidImage(16, 16, color.RGBA{120, 60, 30, 255})

	out, err := Adapter{Model: fake}.Apply(padded)
	require.NoError(t, err)
	require.Equal(t, 32, out.Bounds().Dx())
	require.Equal(t, color.RGBA{120, 60, 30, 255}, out.RGBAAt(15, 15))
}

func TestAdapterRejectsWrongChannelCount(t *testing.T) {
	m := &stubModel{inW: 8, inH: 8, predict: func(in *model.Tensor) (*model.Prediction, error) {
		planes, err := model.NewTensor(4, 16, 16)
		if err != nil {
			return nil, err
		}
		return &model.Prediction{Planes: planes}, nil
	}}

	_, err := Adapter{Model: m}.Apply(solidImage(8, 8, color.RGBA{A: 255}))
	require.ErrorIs(t, err, model.ErrBadOutputShape)
}

func TestAdapterRejectsEmptyPrediction(t *testing.T) {
	m := &stubModel{inW: 8, inH: 8, predict: func(in *model.Tensor) (*model.Prediction, error) {
		return &model.Prediction{}, nil
	}}

	_, err := Adapter{Model: m}.Apply(solidImage(8, 8, color.RGBA{A: 255}))
	require.ErrorIs(t, err, model.ErrBadOutputShape)
}

func TestAdapterPropagatesPredictionError(t *testing.T) {
	boom := errors.New("boom")
	m := &stubModel{inW: 8, inH: 8, predict: func(in *model.Tensor) (*model.Prediction, error) {
		return nil, boom
	}}

	_, err := Adapter{Model: m}.Apply(solidImage(8, 8, color.RGBA{A: 255}))
	require.ErrorIs(t, err, boom)
}

func TestAdapterClampsOutOfRangeValues(t *testing.T) {
	m := &stubModel{inW: 2, inH: 2, predict: func(in *model.Tensor) (*model.Prediction, error) {
		planes, err := model.NewTensor(3, 2, 2)
		if err != nil {
			return nil, err
		}
		for i := range planes.Data {
			planes.Data[i] = 1.7 // overshoot
		}
		planes.Data[0] = -0.3 // undershoot, channel R at (0,0)
		return &model.Prediction{Planes: planes}, nil
	}}

	out, err := Adapter{Model: m}.Apply(solidImage(2, 2, color.RGBA{A: 255}))
	require.NoError(t, err)
	require.Equal(t, color.RGBA{0, 255, 255, 255}, out.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(1, 1))
}
