package hwio

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// InitRegs initializes all the Reg8 fields of the structure pointed to by
// data that carry a "hwio" struct tag. The tag is a comma-separated list of
// options:
//
//	offset=0x12     Offset of the register from the bank address passed to
//	                Table.MapBank. Registers without an offset are not
//	                mapped.
//	reset=0xNN      Value after reset.
//	romask=0xNN     Bits that can't be written.
//	wcb[=Name]      Write callback, method Write<Field> by default, with the
//	                signature of Reg8.WriteCb.
func InitRegs(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return errors.Errorf("hwio: InitRegs wants a pointer to struct, got %T", data)
	}

	s := v.Elem()
	for i := range s.NumField() {
		f := s.Type().Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		reg, ok := s.Field(i).Addr().Interface().(*Reg8)
		if !ok {
			return errors.Errorf("hwio: field %s: tagged field must be a Reg8", f.Name)
		}
		if err := initReg(v, f.Name, reg, parseTag(tag)); err != nil {
			return errors.Wrapf(err, "hwio: field %s", f.Name)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

func initReg(v reflect.Value, name string, reg *Reg8, opts map[string]string) error {
	*reg = Reg8{Name: name}

	for key, val := range opts {
		var err error
		switch key {
		case "offset":
		case "reset":
			reg.Value, err = parseUint8(val)
		case "romask":
			reg.RoMask, err = parseUint8(val)
		case "wcb":
			err = lookupCallback(v, val, "Write"+name, &reg.WriteCb)
		default:
			err = errors.Errorf("unknown option %q", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func lookupCallback[F any](v reflect.Value, name, def string, cb *F) error {
	if name == "" {
		name = def
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return errors.Errorf("missing method %s", name)
	}
	fn, ok := m.Interface().(F)
	if !ok {
		return errors.Errorf("method %s has type %s, want %T", name, m.Type(), *cb)
	}
	*cb = fn
	return nil
}

func parseTag(tag string) map[string]string {
	opts := make(map[string]string)
	for _, opt := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		if key != "" {
			opts[key] = val
		}
	}
	return opts
}

func parseUint8(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value %q", s)
	}
	return uint8(n), nil
}

type bankReg struct {
	offset uint8
	reg    *Reg8
}

func bankGetRegs(bank any) ([]bankReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}

	var regs []bankReg
	s := v.Elem()
	for i := range s.NumField() {
		f := s.Type().Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts := parseTag(tag)
		off, ok := opts["offset"]
		if !ok {
			continue
		}

		offset, err := parseUint8(off)
		if err != nil {
			return nil, errors.Wrapf(err, "hwio: field %s: invalid offset", f.Name)
		}
		reg, ok := s.Field(i).Addr().Interface().(*Reg8)
		if !ok {
			return nil, errors.Errorf("hwio: field %s: tagged field must be a Reg8", f.Name)
		}
		regs = append(regs, bankReg{offset: offset, reg: reg})
	}
	return regs, nil
}
