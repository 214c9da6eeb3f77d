package kafka

// Hook observes the outcome of each handled message, after all retries.
// A nil error means the handler eventually succeeded.
type Hook interface {
	HandleDone(topic string, partition, attempts int, err error)
}

// HookFunc adapts a plain function to Hook.
type HookFunc func(topic string, partition, attempts int, err error)

func (f HookFunc) HandleDone(topic string, partition, attempts int, err error) {
	f(topic, partition, attempts, err)
}
