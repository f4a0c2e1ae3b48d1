package logger_test

import (
	"context"
	"testing"

	"github.com/nocsaren/GA-mock-to-html/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestLogger_InitAndLevels(t *testing.T) {
	convey.Convey("Given an initialized global logger", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("Then the global instance should be available", func() {
			convey.So(logger.Get(), convey.ShouldNotBeNil)
		})

		convey.Convey("Then named loggers should log without panicking", func() {
			log := logger.Named("test")
			convey.So(func() {
				log.Info(context.Background(), "message",
					logger.String("k", "v"),
					logger.Int("n", 1),
					logger.Bool("b", true),
				)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("Then known level strings should parse", func() {
			for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
				convey.So(logger.SetLevelString(level), convey.ShouldBeNil)
			}
		})

		convey.Convey("Then unknown level strings should be rejected", func() {
			convey.So(logger.SetLevelString("loud"), convey.ShouldNotBeNil)
		})
	})
}
