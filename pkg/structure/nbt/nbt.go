// Package nbt reads and writes Minecraft's Named Binary Tag format.
//
// Values map to Go types as follows:
//
//	TAG_Byte       int8
//	TAG_Short      int16
//	TAG_Int        int32
//	TAG_Long       int64
//	TAG_Float      float32
//	TAG_Double     float64
//	TAG_Byte_Array []byte
//	TAG_String     string
//	TAG_List       List
//	TAG_Compound   Compound
//	TAG_Int_Array  []int32
//	TAG_Long_Array []int64
//
// Compound keys are written in sorted order so output is reproducible.
// Streams are uncompressed; callers wrap them in gzip as needed.
package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// Tag type identifiers.
const (
	TagEnd byte = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// Compound is a TAG_Compound.
type Compound map[string]any

// List is a TAG_List. All elements must share one tag type. An empty list
// is written with element type TAG_End.
type List []any

// Bool returns the TAG_Byte encoding of b.
func Bool(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

// TypeOf returns the tag type of v, or TagEnd if v has no NBT mapping.
func TypeOf(v any) byte {
	switch v.(type) {
	case int8:
		return TagByte
	case int16:
		return TagShort
	case int32:
		return TagInt
	case int64:
		return TagLong
	case float32:
		return TagFloat
	case float64:
		return TagDouble
	case []byte:
		return TagByteArray
	case string:
		return TagString
	case List:
		return TagList
	case Compound:
		return TagCompound
	case []int32:
		return TagIntArray
	case []int64:
		return TagLongArray
	}
	return TagEnd
}

// =============================================================================
// Encoding
// =============================================================================

// Encode writes root as a named compound.
func Encode(w io.Writer, name string, root Compound) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}
	e.byte(TagCompound)
	e.string(name)
	e.payload(root)
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) write(v any) {
	if e.err == nil {
		e.err = binary.Write(e.w, binary.BigEndian, v)
	}
}

func (e *encoder) byte(b byte) { e.write(b) }

func (e *encoder) string(s string) {
	if len(s) > math.MaxUint16 {
		e.fail(fmt.Errorf("nbt: string of %d bytes exceeds %d", len(s), math.MaxUint16))
		return
	}
	e.write(uint16(len(s)))
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) payload(v any) {
	switch v := v.(type) {
	case int8, int16, int32, int64, float32, float64:
		e.write(v)
	case []byte:
		e.write(int32(len(v)))
		e.write(v)
	case string:
		e.string(v)
	case List:
		elem := TagEnd
		if len(v) > 0 {
			elem = TypeOf(v[0])
		}
		e.byte(elem)
		e.write(int32(len(v)))
		for i, item := range v {
			if t := TypeOf(item); t != elem {
				e.fail(fmt.Errorf("nbt: list element %d has type %d, want %d", i, t, elem))
				return
			}
			e.payload(item)
		}
	case Compound:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t := TypeOf(v[k])
			if t == TagEnd {
				e.fail(fmt.Errorf("nbt: key %q has unsupported type %T", k, v[k]))
				return
			}
			e.byte(t)
			e.string(k)
			e.payload(v[k])
		}
		e.byte(TagEnd)
	case []int32:
		e.write(int32(len(v)))
		e.write(v)
	case []int64:
		e.write(int32(len(v)))
		e.write(v)
	default:
		e.fail(fmt.Errorf("nbt: unsupported type %T", v))
	}
}

// =============================================================================
// Decoding
// =============================================================================

// Limits applied when decoding untrusted input.
const (
	maxDepth  = 512
	maxLength = 1 << 24
)

// Decode reads a named root compound.
func Decode(r io.Reader) (string, Compound, error) {
	d := &decoder{r: bufio.NewReader(r)}
	t := d.byte()
	if d.err == nil && t != TagCompound {
		return "", nil, fmt.Errorf("nbt: root tag has type %d, want compound", t)
	}
	name := d.string()
	v := d.payload(TagCompound, 0)
	if d.err != nil {
		return "", nil, d.err
	}
	return name, v.(Compound), nil
}

type decoder struct {
	r   *bufio.Reader
	err error
}

func (d *decoder) read(v any) {
	if d.err == nil {
		d.err = binary.Read(d.r, binary.BigEndian, v)
	}
}

func (d *decoder) byte() byte {
	var b byte
	d.read(&b)
	return b
}

func (d *decoder) length() int {
	var n int32
	d.read(&n)
	if d.err == nil && (n < 0 || n > maxLength) {
		d.err = fmt.Errorf("nbt: invalid length %d", n)
		return 0
	}
	return int(n)
}

func (d *decoder) string() string {
	var n uint16
	d.read(&n)
	if d.err != nil {
		return ""
	}
	buf := make([]byte, n)
	_, d.err = io.ReadFull(d.r, buf)
	return string(buf)
}

func (d *decoder) payload(t byte, depth int) any {
	if depth > maxDepth {
		d.err = fmt.Errorf("nbt: nesting deeper than %d", maxDepth)
		return nil
	}
	switch t {
	case TagByte:
		var v int8
		d.read(&v)
		return v
	case TagShort:
		var v int16
		d.read(&v)
		return v
	case TagInt:
		var v int32
		d.read(&v)
		return v
	case TagLong:
		var v int64
		d.read(&v)
		return v
	case TagFloat:
		var v float32
		d.read(&v)
		return v
	case TagDouble:
		var v float64
		d.read(&v)
		return v
	case TagByteArray:
		n := d.length()
		if d.err != nil {
			return nil
		}
		v := make([]byte, n)
		_, d.err = io.ReadFull(d.r, v)
		return v
	case TagString:
		return d.string()
	case TagList:
		elem := d.byte()
		n := d.length()
		if d.err != nil {
			return nil
		}
		v := make(List, 0, min(n, 1024))
		for i := 0; i < n && d.err == nil; i++ {
			v = append(v, d.payload(elem, depth+1))
		}
		return v
	case TagCompound:
		v := Compound{}
		for d.err == nil {
			kt := d.byte()
			if kt == TagEnd || d.err != nil {
				break
			}
			k := d.string()
			v[k] = d.payload(kt, depth+1)
		}
		return v
	case TagIntArray:
		n := d.length()
		if d.err != nil {
			return nil
		}
		v := make([]int32, n)
		d.read(v)
		return v
	case TagLongArray:
		n := d.length()
		if d.err != nil {
			return nil
		}
		v := make([]int64, n)
		d.read(v)
		return v
	}
	if d.err == nil {
		d.err = fmt.Errorf("nbt: unknown tag type %d", t)
	}
	return nil
}
