package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// notBoolValue is like flag.boolValue but it inverts the value.
type notBoolValue bool

func newNotBoolValue(val bool, p *bool) *notBoolValue {
	*p = !val
	return (*notBoolValue)(p)
}

func (b *notBoolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	*b = notBoolValue(!v)
	return err
}

func (b *notBoolValue) Get() any { return bool(*b) }

func (b *notBoolValue) String() string {
	if b == nil {
		return "false"
	}
	return fmt.Sprintf("%v", !*b)
}

func (b *notBoolValue) IsBoolFlag() bool { return true }

// intValue is an integer flag that also accepts "none". min bounds the
// accepted integers.
type intValue struct {
	n    int64
	none bool
	min  int64
}

func (v *intValue) Set(s string) error {
	if strings.EqualFold(s, "none") {
		v.n, v.none = 0, true
		return nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return fmt.Errorf("want an integer or none")
	}
	if n < v.min {
		return fmt.Errorf("want at least %d", v.min)
	}
	v.n, v.none = n, false
	return nil
}

func (v *intValue) String() string {
	if v == nil || v.none {
		return "none"
	}
	return strconv.FormatInt(v.n, 10)
}

// boolWordValue is a boolean flag that takes an explicit value, written
// as any of the usual yes/no words.
type boolWordValue bool

var boolWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "0": false,
}

func (b *boolWordValue) Set(s string) error {
	v, ok := boolWords[strings.ToLower(s)]
	if !ok {
		return fmt.Errorf("unknown boolean keyword %q", s)
	}
	*b = boolWordValue(v)
	return nil
}

func (b *boolWordValue) String() string {
	if b == nil {
		return "false"
	}
	return strconv.FormatBool(bool(*b))
}

// boolVar registers one boolean under several names.
func boolVar(fs *flag.FlagSet, p *bool, usage string, names ...string) {
	for _, name := range names {
		fs.BoolVar(p, name, false, usage)
	}
}
