package visitor

// Visitor calls the callback for each (key, element) pair.
// The callback returns false to stop, an error stops the visit and is returned.
type Visitor[K comparable, E any] func(func(key K, element E) (bool, error)) error
