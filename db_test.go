package ukv

import "testing"

func TestOpenDefaultsToMemoryEngine(t *testing.T) {
	db, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if db.backend == nil {
		t.Fatalf("expected a backend to be wired")
	}
}

func TestOpenRejectsUnknownEngine(t *testing.T) {
	_, err := Open(`{"engine":"quantum"}`)
	if err == nil {
		t.Fatalf("expected an error for an unknown engine")
	}
	var e *Error
	if !asError(err, &e) || e.Kind != KindUsage {
		t.Fatalf("expected a KindUsage *Error, got %v", err)
	}
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := Open(`{"engine":"badger"}`)
	if err == nil {
		t.Fatalf("expected an error when path is missing")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	db, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func TestNewLoggerEmptyLevelIsNoOp(t *testing.T) {
	log := newLogger("")
	// NoOp's WithFields returns the receiver itself; a real logrus-backed
	// Logger's does not.
	if log.WithFields(map[string]any{"k": "v"}) != log {
		t.Fatalf("expected the empty level to produce the no-op logger")
	}
}

func TestOpenWiresLogLevelIntoBackend(t *testing.T) {
	db, err := Open(`{"log_level":"debug"}`)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if db.log.WithFields(map[string]any{"k": "v"}) == db.log {
		t.Fatalf("expected a real logrus-backed Logger, got the no-op")
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
