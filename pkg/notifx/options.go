package notifx

// SendOptions carries provider hints for one send.
type SendOptions struct {
	Tags             map[string]string
	ConfigurationSet string
}

type Option func(*SendOptions)

// WithTags attaches tags the provider records with the message.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) { o.Tags = tags }
}

// WithConfigurationSet selects a provider side configuration set.
func WithConfigurationSet(name string) Option {
	return func(o *SendOptions) { o.ConfigurationSet = name }
}

// ApplyOptions folds opts into SendOptions. Providers call it.
func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
