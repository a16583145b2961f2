package codec

// WriteIsolate pairs an owner with the identity table used while encoding its state.
type WriteIsolate struct {
	owner      any
	identities *WriteIdentities
}

func newWriteIsolate(owner any) *WriteIsolate {
	return &WriteIsolate{owner: owner, identities: NewWriteIdentities()}
}

// Owner returns the object the isolate was opened for.
func (i *WriteIsolate) Owner() any { return i.owner }

// Identities returns the isolate's value identity table.
func (i *WriteIsolate) Identities() *WriteIdentities { return i.identities }

// ReadIsolate pairs an owner with the identity table used while decoding its state.
type ReadIsolate struct {
	owner      any
	identities *ReadIdentities
}

func newReadIsolate(owner any) *ReadIsolate {
	return &ReadIsolate{owner: owner, identities: NewReadIdentities()}
}

// Owner returns the object the isolate was opened for.
func (i *ReadIsolate) Owner() any { return i.owner }

// Identities returns the isolate's value identity table.
func (i *ReadIsolate) Identities() *ReadIdentities { return i.identities }

type writeFrame struct {
	codec   Codec
	isolate *WriteIsolate
}

type readFrame struct {
	codec   Codec
	isolate *ReadIsolate
}
