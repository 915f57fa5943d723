package logging

import (
	"strconv"
	"time"
)

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value any) Field         { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error"; a nil error is recorded as null
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field   { return String("component", name) }
func Path(p string) Field           { return String("path", p) }
func Attribute(name string) Field   { return String("attribute", name) }
func RunID(id string) Field         { return String("run_id", id) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
func Count(n int) Field             { return Int("count", n) }

// Param records a sweep parameter in its shortest decimal form
func Param(p float64) Field {
	return String("param", strconv.FormatFloat(p, 'g', -1, 64))
}

// Community records the position of a community in extraction order
func Community(index int) Field {
	return Int("community", index)
}
