package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgen/internal/domain"
	"marketgen/internal/providers/image"
	"marketgen/internal/providers/text"
)

type fakeText struct {
	calls int32
	out   string
	err   error
	last  text.Request
}

func (f *fakeText) Name() string { return "fake-text" }

func (f *fakeText) GenerateCopy(ctx context.Context, req text.Request) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last = req
	return f.out, f.err
}

type fakeImage struct {
	calls  int32
	banner *image.Banner
	err    error
	block  bool
	last   image.Request
}

func (f *fakeImage) Name() string { return "fake-image" }

func (f *fakeImage) GenerateBanner(ctx context.Context, req image.Request) (*image.Banner, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.banner, f.err
}

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		ProductName: "EcoBottle Pro",
		Description: "Reusable bottle",
		Platform:    "Instagram",
		Tone:        "Professional",
	}
}

func newGenerator(t *testing.T, tx text.Generator, img image.Generator) *Generator {
	t.Helper()
	return New(Options{Text: tx, Image: img, Logger: zerolog.Nop(), Timeout: time.Second})
}

func TestGenerateBothProvidersSucceed(t *testing.T) {
	tx := &fakeText{out: "Stay hydrated, sustainably."}
	img := &fakeImage{banner: &image.Banner{URL: "https://cdn.test/banner.png"}}

	res, err := newGenerator(t, tx, img).Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated, sustainably.", res.MarketingCopy)
	assert.Equal(t, "https://cdn.test/banner.png", res.GeneratedImage)
	assert.True(t, res.HasImage())
	assert.Equal(t, "EcoBottle Pro", tx.last.ProductName)
	assert.Equal(t, "Instagram", img.last.Platform)
}

func TestGenerateImageFailureIsNotFatal(t *testing.T) {
	tx := &fakeText{out: "copy"}
	img := &fakeImage{err: errors.New("image quota exceeded")}

	res, err := newGenerator(t, tx, img).Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "copy", res.MarketingCopy)
	assert.Empty(t, res.GeneratedImage)
	assert.False(t, res.HasImage())
}

func TestGenerateEmptyBannerIsOmitted(t *testing.T) {
	res, err := newGenerator(t, &fakeText{out: "copy"}, &fakeImage{banner: &image.Banner{}}).Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, res.GeneratedImage)
}

func TestGenerateWithoutImageProvider(t *testing.T) {
	res, err := newGenerator(t, &fakeText{out: "copy"}, nil).Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "copy", res.MarketingCopy)
	assert.Empty(t, res.GeneratedImage)
}

func TestGenerateTextFailureIsFatal(t *testing.T) {
	cause := errors.New("upstream 500")
	for _, img := range []*fakeImage{
		{banner: &image.Banner{URL: "https://cdn.test/banner.png"}},
		{err: errors.New("also broken")},
	} {
		res, err := newGenerator(t, &fakeText{err: cause}, img).Generate(context.Background(), validRequest())
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
		assert.ErrorIs(t, err, cause)
	}
}

func TestGenerateTextFailureCancelsImage(t *testing.T) {
	img := &fakeImage{block: true}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := New(Options{Text: &fakeText{err: errors.New("boom")}, Image: img, Logger: zerolog.Nop()}).
			Generate(context.Background(), validRequest())
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("image step was not cancelled after text failure")
	}
}

func TestGenerateValidationSkipsProviders(t *testing.T) {
	tx := &fakeText{out: "copy"}
	img := &fakeImage{}

	_, err := newGenerator(t, tx, img).Generate(context.Background(), domain.GenerationRequest{ProductName: "", Description: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, atomic.LoadInt32(&tx.calls))
	assert.Zero(t, atomic.LoadInt32(&img.calls))
}

func TestGenerateWithoutTextProvider(t *testing.T) {
	_, err := newGenerator(t, nil, &fakeImage{}).Generate(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGenerateIsRepeatable(t *testing.T) {
	tx := &fakeText{out: "copy"}
	img := &fakeImage{banner: &image.Banner{URL: "https://cdn.test/b.png"}}
	gen := newGenerator(t, tx, img)

	for i := 0; i < 2; i++ {
		res, err := gen.Generate(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, "copy", res.MarketingCopy)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&tx.calls))
	assert.EqualValues(t, 2, atomic.LoadInt32(&img.calls))
}

func TestGenerateForwardsImageAndDefaults(t *testing.T) {
	tx := &fakeText{out: "copy"}
	img := &fakeImage{banner: &image.Banner{Data: []byte("png"), MIMEType: "image/png"}}
	req := domain.GenerationRequest{
		ProductName:  "Lamp",
		Description:  "Desk lamp",
		ProductImage: &domain.ProductImage{Filename: "lamp.jpg", MIMEType: "image/jpeg", Data: []byte("jpeg")},
	}

	res, err := newGenerator(t, tx, img).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,cG5n", res.GeneratedImage)
	assert.Equal(t, domain.DefaultPlatform, tx.last.Platform)
	assert.Equal(t, domain.DefaultTone, tx.last.Tone)
	require.NotNil(t, tx.last.Image)
	require.NotNil(t, img.last.Reference)
	assert.Equal(t, "lamp.jpg", img.last.Reference.Filename)
}

func TestProviders(t *testing.T) {
	textName, imageName := newGenerator(t, &fakeText{}, nil).Providers()
	assert.Equal(t, "fake-text", textName)
	assert.Empty(t, imageName)
}
