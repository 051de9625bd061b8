package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Strings(key string, values []string) Field {
	return Field{Key: key, Value: values}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

// Term tags a GO term identifier
func Term(id string) Field {
	return String("term", id)
}

// Side tags which annotation set ("a" or "b") a term came from
func Side(side string) Field {
	return String("side", side)
}

// Source tags the producer of an annotation set, e.g. "interpro" or "deepfri"
func Source(name string) Field {
	return String("source", name)
}

func Threshold(v float64) Field {
	return Float64("threshold", v)
}

func JobID(id string) Field {
	return String("job_id", id)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
