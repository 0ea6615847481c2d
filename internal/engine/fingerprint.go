package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Domain prefix for tree fingerprints. The version suffix enables future
// algorithm migration; the null separator prevents boundary ambiguity.
const domainTree = "weft/tree/v1"

// Variant tags for fingerprinting. Continuation closures cannot be hashed,
// so two trees with identical shape but different continuations fingerprint
// equal - which is exactly what the progress guard needs: a pass that
// reproduces the same shape has made no observable progress.
const (
	tagEdit byte = iota + 1
	tagSelect
	tagLift
	tagPair
	tagChoose
	tagFail
	tagTrans
	tagStep
	tagAssert
	tagAssign
)

// Fingerprint computes a SHA-256 digest of a tree's observable shape:
// variant tags, leaf names, editor kinds, current values, cell identities
// and generations, and option labels.
func Fingerprint(t task.Task) (string, error) {
	h := sha256.New()
	h.Write([]byte(domainTree))
	h.Write([]byte{0x00})
	if err := hashTask(h, t); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashTask(h hash.Hash, t task.Task) error {
	switch n := t.(type) {
	case *task.Edit:
		h.Write([]byte{tagEdit})
		hashString(h, string(n.Name))
		return hashEditor(h, n.Editor)

	case *task.Select:
		h.Write([]byte{tagSelect})
		hashString(h, string(n.Name))
		hashInt(h, int64(len(n.Options)))
		for _, opt := range n.Options {
			hashString(h, opt.Label)
		}
		return hashTask(h, n.Inner)

	case *task.Lift:
		h.Write([]byte{tagLift})
		return hashValue(h, n.Value)

	case *task.Pair:
		h.Write([]byte{tagPair})
		if err := hashTask(h, n.Left); err != nil {
			return err
		}
		return hashTask(h, n.Right)

	case *task.Choose:
		h.Write([]byte{tagChoose})
		if err := hashTask(h, n.Left); err != nil {
			return err
		}
		return hashTask(h, n.Right)

	case *task.Fail:
		h.Write([]byte{tagFail})
		return nil

	case *task.Trans:
		h.Write([]byte{tagTrans})
		return hashTask(h, n.Inner)

	case *task.Step:
		h.Write([]byte{tagStep})
		return hashTask(h, n.Inner)

	case *task.Assert:
		h.Write([]byte{tagAssert})
		if n.Cond {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		return nil

	case *task.Assign:
		h.Write([]byte{tagAssign})
		hashString(h, string(n.Cell.ID()))
		return hashValue(h, n.Value)

	default:
		return fmt.Errorf("fingerprint: unknown task variant %T", t)
	}
}

func hashEditor(h hash.Hash, e task.Editor) error {
	hashString(h, task.EditorKind(e))
	switch ed := e.(type) {
	case *task.Enter:
		hashString(h, ed.Type.String())
		return nil
	case *task.Update:
		return hashValue(h, ed.Value)
	case *task.View:
		return hashValue(h, ed.Value)
	case *task.Watch:
		hashString(h, string(ed.Cell.ID()))
		hashInt(h, ed.Gen)
		return hashValue(h, ed.Value)
	case *task.Change:
		hashString(h, string(ed.Cell.ID()))
		hashInt(h, ed.Gen)
		return hashValue(h, ed.Value)
	default:
		return fmt.Errorf("fingerprint: unknown editor variant %T", e)
	}
}

func hashValue(h hash.Hash, v value.Value) error {
	canonical, err := value.MarshalCanonical(v)
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	hashBytes(h, canonical)
	return nil
}

// hashString writes a length-prefixed string so adjacent fields cannot
// collide across boundaries.
func hashString(h hash.Hash, s string) {
	hashBytes(h, []byte(s))
}

func hashBytes(h hash.Hash, b []byte) {
	hashInt(h, int64(len(b)))
	h.Write(b)
}

func hashInt(h hash.Hash, n int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}
