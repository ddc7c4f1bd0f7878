package wr

import "log/slog"

// Option configures an API during creation.
//
// Example:
//
//	api := wr.NewAPI(wr.WithNotifier(n), wr.WithDeviceSize(1024, 1024))
type Option func(*apiOptions)

type apiOptions struct {
	notifier   Notifier
	logger     *slog.Logger
	width      int
	height     int
	fontParser string
}

func defaultOptions() apiOptions {
	return apiOptions{
		width:  MaxDeviceExtent,
		height: MaxDeviceExtent,
	}
}

// WithNotifier sets the notifier called after each scene submission.
func WithNotifier(n Notifier) Option {
	return func(o *apiOptions) {
		o.notifier = n
	}
}

// WithLogger sets a logger for this API instance instead of the package
// logger returned by Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *apiOptions) {
		o.logger = l
	}
}

// WithDeviceSize sets the device surface size. Root stacking contexts whose
// bounds lie entirely outside the device are still accepted; the size is
// reported to consumers through API.DeviceSize.
func WithDeviceSize(width, height int) Option {
	return func(o *apiOptions) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithFontParser selects the registered font parser by name ("ximage" or
// "gotext"). The default is font.DefaultParser.
func WithFontParser(name string) Option {
	return func(o *apiOptions) {
		o.fontParser = name
	}
}
