package attack

type passthrough struct{}

func (passthrough) ID() ID                  { return Passthrough }
func (passthrough) Classify(*Frame) Outcome { return ignore() }
func (passthrough) passive()                {}
