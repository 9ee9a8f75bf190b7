package math3d

// DomainError reports an operation whose inputs put it outside its numeric
// domain, such as a division by zero.
type DomainError struct {
	Op  string
	Msg string
}

func (e *DomainError) Error() string {
	return "math3d: " + e.Op + ": " + e.Msg
}
