package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type regInfo struct {
	regPtr any
	offset uint16
}

type tagOpts map[string]string

func parseTag(tag string) tagOpts {
	opts := make(tagOpts)
	for _, kv := range strings.Split(tag, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		opts[k] = v
	}
	return opts
}

func (o tagOpts) uint(key string, bits int) (uint64, bool, error) {
	s, ok := o[key]
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, true, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	return v, true, nil
}

// cbName returns the method name of the callback bound by key ("rcb", "wcb",
// "pcb"), or "" if the tag does not ask for one.
func (o tagOpts) cbName(key, prefix, field string) string {
	v, ok := o[key]
	switch {
	case !ok:
		return ""
	case v != "":
		return v
	}
	return prefix + strings.ToUpper(field)
}

func structValue(bank any) (reflect.Value, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}
	return v, nil
}

func method[F any](bank reflect.Value, name string) (F, error) {
	var zero F
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("hwio: missing callback method %s on %s", name, bank.Type())
	}
	f, ok := m.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("hwio: callback %s has type %s, want %T", name, m.Type(), zero)
	}
	return f, nil
}

func rwFlags(opts tagOpts) RWFlags {
	var flags RWFlags
	if _, ok := opts["readonly"]; ok {
		flags |= ReadOnlyFlag
	}
	if _, ok := opts["writeonly"]; ok {
		flags |= WriteOnlyFlag
	}
	return flags
}

func initReg8(bank reflect.Value, name string, reg *Reg8, opts tagOpts) error {
	reg.Name = name
	reg.Flags = rwFlags(opts)

	reset, _, err := opts.uint("reset", 8)
	if err != nil {
		return err
	}
	reg.Value = uint8(reset)

	if rwmask, ok, err := opts.uint("rwmask", 8); err != nil {
		return err
	} else if ok {
		reg.RoMask = ^uint8(rwmask)
	}

	if n := opts.cbName("rcb", "Read", name); n != "" {
		if reg.ReadCb, err = method[func(uint8) uint8](bank, n); err != nil {
			return err
		}
	}
	if n := opts.cbName("wcb", "Write", name); n != "" {
		if reg.WriteCb, err = method[func(uint8, uint8)](bank, n); err != nil {
			return err
		}
	}
	if n := opts.cbName("pcb", "Peek", name); n != "" {
		if reg.PeekCb, err = method[func(uint8) uint8](bank, n); err != nil {
			return err
		}
	}
	return nil
}

func initMem(bank reflect.Value, name string, m *Mem, opts tagOpts) error {
	m.Name = name
	if _, ok := opts["readonly"]; ok {
		m.Flags |= MemFlag8ReadOnly
	}

	size, ok, err := opts.uint("size", 32)
	if err != nil {
		return err
	}
	if ok && m.Data == nil {
		m.Data = make([]byte, size)
	}
	vsize, ok, err := opts.uint("vsize", 32)
	switch {
	case err != nil:
		return err
	case ok:
		m.VSize = int(vsize)
	case m.VSize == 0:
		m.VSize = len(m.Data)
	}

	if n := opts.cbName("wcb", "Write", name); n != "" {
		if m.WriteCb, err = method[func(uint16, uint8)](bank, n); err != nil {
			return err
		}
	}
	return nil
}

func initDevice(bank reflect.Value, name string, d *Device, opts tagOpts) error {
	d.Name = name
	d.Flags = rwFlags(opts)

	size, _, err := opts.uint("size", 32)
	if err != nil {
		return err
	}
	d.Size = int(size)

	if n := opts.cbName("rcb", "Read", name); n != "" {
		if d.ReadCb, err = method[func(uint16) uint8](bank, n); err != nil {
			return err
		}
	}
	if n := opts.cbName("wcb", "Write", name); n != "" {
		if d.WriteCb, err = method[func(uint16, uint8)](bank, n); err != nil {
			return err
		}
	}
	if n := opts.cbName("pcb", "Peek", name); n != "" {
		if d.PeekCb, err = method[func(uint16) uint8](bank, n); err != nil {
			return err
		}
	}
	return nil
}

// InitRegs initializes all the Reg8, Mem and Device fields of the struct
// pointed to by bank, following their "hwio" struct tags. Fields without a
// tag are left untouched.
func InitRegs(bank any) error {
	v, err := structValue(bank)
	if err != nil {
		return err
	}
	st := v.Elem()
	for i := range st.NumField() {
		field := st.Type().Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts := parseTag(tag)
		fptr := st.Field(i).Addr().Interface()

		switch r := fptr.(type) {
		case *Reg8:
			err = initReg8(v, field.Name, r, opts)
		case *Mem:
			err = initMem(v, field.Name, r, opts)
		case *Device:
			err = initDevice(v, field.Name, r, opts)
		default:
			err = fmt.Errorf("hwio: unsupported field type %s", field.Type)
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", st.Type().Name(), field.Name, err)
		}
	}
	return nil
}

func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

// bankGetRegs returns the registers of bank number bankNum, that is all
// tagged fields with an offset and a matching bank option.
func bankGetRegs(bank any, bankNum int) ([]regInfo, error) {
	v, err := structValue(bank)
	if err != nil {
		return nil, err
	}
	st := v.Elem()

	var regs []regInfo
	for i := range st.NumField() {
		field := st.Type().Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts := parseTag(tag)
		offset, ok, err := opts.uint("offset", 16)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", st.Type().Name(), field.Name, err)
		}
		if !ok {
			continue
		}
		num, _, err := opts.uint("bank", 16)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", st.Type().Name(), field.Name, err)
		}
		if int(num) != bankNum {
			continue
		}
		regs = append(regs, regInfo{
			regPtr: st.Field(i).Addr().Interface(),
			offset: uint16(offset),
		})
	}
	return regs, nil
}
