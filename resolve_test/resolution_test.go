package resolve_test

import (
	"context"
	"errors"
	"testing"

	resolve "github.com/centraunit/goallin_resolve"
	"github.com/centraunit/goallin_resolve/mock"
	"github.com/stretchr/testify/suite"
)

type ResolutionTestSuite struct {
	suite.Suite
}

func (s *ResolutionTestSuite) SetupTest() {
	resolve.Reset()
}

func (s *ResolutionTestSuite) TestImmediateProducer() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("cache", resolve.Value("Cache Service Ready")))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	value, err := bindings.Resolve(context.Background(), &app.Host, "cache")
	s.NoError(err)
	s.Equal("Cache Service Ready", value)
}

func (s *ResolutionTestSuite) TestSuspendingProducer() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("database", mock.Delayed("DB Connection Established", 0)))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	value, err := bindings.Resolve(context.Background(), &app.Host, "db")
	s.NoError(err)
	s.Equal("DB Connection Established", value)
}

func (s *ResolutionTestSuite) TestCacheIdempotence() {
	registry := resolve.NewRegistry()
	counting := mock.NewCounting("Cache Service Ready")
	s.NoError(registry.Register("cache", counting.Producer()))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	for i := 0; i < 3; i++ {
		value, err := bindings.Resolve(context.Background(), &app.Host, "cache")
		s.NoError(err)
		s.Equal("Cache Service Ready", value)
	}
	s.Equal(int32(1), counting.Calls(), "resolved cell must not re-invoke the producer")
}

func (s *ResolutionTestSuite) TestPerObjectCells() {
	registry := resolve.NewRegistry()
	counting := mock.NewCounting("Cache Service Ready")
	s.NoError(registry.Register("cache", counting.Producer()))

	bindings := mock.AppBindings(registry)
	first := &mock.App{}
	second := &mock.App{}

	_, err := bindings.Resolve(context.Background(), &first.Host, "cache")
	s.NoError(err)
	_, err = bindings.Resolve(context.Background(), &second.Host, "cache")
	s.NoError(err)

	s.Equal(int32(2), counting.Calls(), "resolution is cached once per owning object")
}

func (s *ResolutionTestSuite) TestUnboundAttribute() {
	app := &mock.App{}
	bindings := mock.AppBindings(resolve.NewRegistry())
	_, err := bindings.Resolve(context.Background(), &app.Host, "queue")
	var unbound *resolve.UnboundAttributeError
	s.True(errors.As(err, &unbound))
	s.Equal("queue", unbound.Attribute)
}

func (s *ResolutionTestSuite) TestResolveAs() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("cache", resolve.Value("Cache Service Ready")))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	value, err := resolve.ResolveAs[string](context.Background(), bindings, &app.Host, "cache")
	s.NoError(err)
	s.Equal("Cache Service Ready", value)
}

func (s *ResolutionTestSuite) TestResolveAsMismatch() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("cache", resolve.Value("Cache Service Ready")))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	_, err := resolve.ResolveAs[int](context.Background(), bindings, &app.Host, "cache")
	var mismatch *resolve.TypeMismatchError
	s.True(errors.As(err, &mismatch))
	s.Equal("int", mismatch.Expected)
	s.Equal("string", mismatch.Got)
}

func (s *ResolutionTestSuite) TestNilValueResolvesAndCaches() {
	registry := resolve.NewRegistry()
	counting := mock.NewCounting(nil)
	s.NoError(registry.Register("cache", counting.Producer()))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	for i := 0; i < 2; i++ {
		value, err := bindings.Resolve(context.Background(), &app.Host, "cache")
		s.NoError(err)
		s.Nil(value)
	}
	s.Equal(int32(1), counting.Calls(), "a nil value is a success and is cached")
}

func (s *ResolutionTestSuite) TestResolveAsNilValue() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("cache", resolve.Value(nil)))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	_, err := resolve.ResolveAs[int](context.Background(), bindings, &app.Host, "cache")
	var mismatch *resolve.TypeMismatchError
	s.True(errors.As(err, &mismatch))
	s.Equal("int", mismatch.Expected)
	s.Equal("<nil>", mismatch.Got)
}

func (s *ResolutionTestSuite) TestWarm() {
	registry := resolve.NewRegistry()
	db := mock.NewCounting("DB Connection Established")
	cache := mock.NewCounting("Cache Service Ready")
	s.NoError(registry.Register("database", db.Producer()))
	s.NoError(registry.Register("cache", cache.Producer()))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	s.NoError(bindings.Warm(context.Background(), &app.Host))
	s.Equal(int32(1), db.Calls())
	s.Equal(int32(1), cache.Calls())

	// Warm twice is a no-op; lazy reads hit the same cells.
	s.NoError(bindings.Warm(context.Background(), &app.Host))
	value, err := bindings.Resolve(context.Background(), &app.Host, "db")
	s.NoError(err)
	s.Equal("DB Connection Established", value)
	s.Equal(int32(1), db.Calls())
	s.Equal(int32(1), cache.Calls())
}

func (s *ResolutionTestSuite) TestWarmStopsAtFirstError() {
	registry := resolve.NewRegistry()
	s.NoError(registry.Register("cache", resolve.Value("Cache Service Ready")))

	app := &mock.App{}
	bindings := mock.AppBindings(registry)
	err := bindings.Warm(context.Background(), &app.Host)
	var notFound *resolve.NotFoundError
	s.True(errors.As(err, &notFound))
	s.Equal("database", notFound.Service)
}

func (s *ResolutionTestSuite) TestDefaultRegistryResolution() {
	s.NoError(resolve.Register("cache", resolve.Value("Cache Service Ready")))

	app := &mock.App{}
	bindings := mock.AppBindings(nil)
	value, err := bindings.Resolve(context.Background(), &app.Host, "cache")
	s.NoError(err)
	s.Equal("Cache Service Ready", value)
}

func TestResolutionSuite(t *testing.T) {
	suite.Run(t, new(ResolutionTestSuite))
}
