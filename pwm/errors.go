package pwm

// InvalidMatrixError is returned when matrix data cannot form a usable
// weight matrix: wrong shape, negative counts, or cells that yield
// non-finite weights.
type InvalidMatrixError struct {
	Message string
}

func (e InvalidMatrixError) Error() string {
	return e.Message
}

// DomainError is returned when a query argument or option lies outside its
// legal range, such as a p-value outside (0, 1] or a background that is
// not a probability distribution.
type DomainError struct {
	Message string
}

func (e DomainError) Error() string {
	return e.Message
}
