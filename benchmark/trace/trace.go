// Package trace reads, writes and generates cache access traces.
//
// A trace is plain text with one operation per line:
//
//	get KEY
//	put KEY [TTL]
//	del KEY
//	advance DURATION
//
// Durations use Go syntax ("30s", "1m30s"). Blank lines and lines starting
// with '#' are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrSyntax is returned for malformed trace lines or unwritable operations.
var ErrSyntax = errors.New("trace: syntax error")

// Kind is the type of a trace operation.
type Kind int

// Operation kinds.
const (
	Get Kind = iota + 1
	Put
	Del
	Advance
)

var kindNames = map[Kind]string{
	Get:     "get",
	Put:     "put",
	Del:     "del",
	Advance: "advance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is one trace operation.
type Op struct {
	Kind Kind
	Key  string
	// Duration is the TTL of a Put (zero means none) or the step of an
	// Advance.
	Duration time.Duration
}

// String formats the operation as a trace line.
func (o Op) String() string {
	switch o.Kind {
	case Put:
		if o.Duration > 0 {
			return fmt.Sprintf("put %s %s", o.Key, o.Duration)
		}
		return "put " + o.Key
	case Advance:
		return "advance " + o.Duration.String()
	default:
		return o.Kind.String() + " " + o.Key
	}
}

func (o Op) validate() error {
	switch o.Kind {
	case Get, Put, Del:
		if o.Key == "" || strings.ContainsAny(o.Key, " \t\r\n") {
			return fmt.Errorf("%w: invalid key %q", ErrSyntax, o.Key)
		}
		if o.Duration < 0 {
			return fmt.Errorf("%w: negative ttl %s", ErrSyntax, o.Duration)
		}
	case Advance:
		if o.Duration <= 0 {
			return fmt.Errorf("%w: advance must be positive, got %s", ErrSyntax, o.Duration)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrSyntax, int(o.Kind))
	}
	return nil
}

// Parse reads every operation from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return ops, nil
}

func parseLine(line string) (Op, error) {
	fields := strings.Fields(line)
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "get", "del":
		if len(args) != 1 {
			return Op{}, fmt.Errorf("%w: %s takes one key", ErrSyntax, verb)
		}
		kind := Get
		if verb == "del" {
			kind = Del
		}
		return Op{Kind: kind, Key: args[0]}, nil

	case "put":
		if len(args) < 1 || len(args) > 2 {
			return Op{}, fmt.Errorf("%w: put takes a key and an optional ttl", ErrSyntax)
		}
		op := Op{Kind: Put, Key: args[0]}
		if len(args) == 2 {
			ttl, err := time.ParseDuration(args[1])
			if err != nil || ttl < 0 {
				return Op{}, fmt.Errorf("%w: bad ttl %q", ErrSyntax, args[1])
			}
			op.Duration = ttl
		}
		return op, nil

	case "advance":
		if len(args) != 1 {
			return Op{}, fmt.Errorf("%w: advance takes one duration", ErrSyntax)
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return Op{}, fmt.Errorf("%w: bad duration %q", ErrSyntax, args[0])
		}
		return Op{Kind: Advance, Duration: d}, nil

	default:
		return Op{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}
}

// Write writes ops to w, one per line.
func Write(w io.Writer, ops []Op) error {
	bw := bufio.NewWriter(w)
	for i, op := range ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if _, err := bw.WriteString(op.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
