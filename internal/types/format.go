package types

import (
	"strconv"
	"strings"
)

// String renders id in textual IR syntax.
func (c *Context) String(id TypeID) string {
	var sb strings.Builder
	c.write(&sb, id)
	return sb.String()
}

func (c *Context) write(sb *strings.Builder, id TypeID) {
	t, ok := c.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch t.Kind {
	case KindInt:
		sb.WriteByte('i')
		sb.WriteString(strconv.FormatUint(uint64(t.Width), 10))
	case KindPointer:
		sb.WriteString("ptr")
		if t.AddrSpace != 0 {
			sb.WriteString(" addrspace(")
			sb.WriteString(strconv.FormatUint(uint64(t.AddrSpace), 10))
			sb.WriteByte(')')
		}
	case KindArray:
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatUint(t.Count, 10))
		sb.WriteString(" x ")
		c.write(sb, t.Elem)
		sb.WriteByte(']')
	case KindVector:
		sb.WriteByte('<')
		if t.Scalable {
			sb.WriteString("vscale x ")
		}
		sb.WriteString(strconv.FormatUint(t.Count, 10))
		sb.WriteString(" x ")
		c.write(sb, t.Elem)
		sb.WriteByte('>')
	case KindStruct:
		if t.Named {
			sb.WriteString(LocalName(c.named[t.Payload].Name))
			return
		}
		c.writeBody(sb, c.list(t.Payload), t.Packed)
	case KindFunc:
		c.write(sb, t.Elem)
		sb.WriteString(" (")
		params := c.list(t.Payload)
		for i, p := range params {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.write(sb, p)
		}
		if t.Variadic {
			if len(params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteByte(')')
	case KindTargetExt:
		info := c.targets[t.Payload]
		sb.WriteString("target(")
		sb.WriteString(strconv.Quote(info.Name))
		for _, p := range info.Types {
			sb.WriteString(", ")
			c.write(sb, p)
		}
		for _, n := range info.Ints {
			sb.WriteString(", ")
			sb.WriteString(strconv.FormatUint(uint64(n), 10))
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.Kind.String())
	}
}

// NamedBody renders the body of a named struct as it appears after "type".
func (c *Context) NamedBody(id TypeID) string {
	info, err := c.namedInfo(id)
	if err != nil {
		return ""
	}
	if info.Opaque {
		return "opaque"
	}
	var sb strings.Builder
	c.writeBody(&sb, info.Fields, info.Packed)
	return sb.String()
}

func (c *Context) writeBody(sb *strings.Builder, fields []TypeID, packed bool) {
	if packed {
		sb.WriteByte('<')
	}
	if len(fields) == 0 {
		sb.WriteString("{}")
	} else {
		sb.WriteString("{ ")
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.write(sb, f)
		}
		sb.WriteString(" }")
	}
	if packed {
		sb.WriteByte('>')
	}
}

// LocalName renders %name, quoting when the name needs it. Numeric names
// stay bare (%0).
func LocalName(name string) string {
	return "%" + QuoteName(name)
}

// QuoteName quotes name unless it is a plain identifier or a number.
func QuoteName(name string) string {
	if name == "" {
		return `""`
	}
	plain := true
	for i := 0; i < len(name); i++ {
		b := name[i]
		isAlpha := (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
		isDigit := b >= '0' && b <= '9'
		if !isAlpha && !isDigit && b != '-' && b != '$' && b != '.' && b != '_' {
			plain = false
			break
		}
	}
	if plain && name[0] >= '0' && name[0] <= '9' {
		plain = isNumeric(name)
	}
	if plain {
		return name
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b == '"' || b == '\\' || b < 0x20 || b >= 0x7f {
			sb.WriteByte('\\')
			sb.WriteString(strings.ToUpper(strconv.FormatUint(uint64(b)>>4, 16)))
			sb.WriteString(strings.ToUpper(strconv.FormatUint(uint64(b)&0xf, 16)))
			continue
		}
		sb.WriteByte(b)
	}
	sb.WriteByte('"')
	return sb.String()
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
