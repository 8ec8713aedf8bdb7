package nicolive

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	statusLineRe = regexp.MustCompile(`(?i)^HTTP/\d+(?:\.\d+)?\s+(\d{3})(?:\s.*)?$`)
	setCookieRe  = regexp.MustCompile(`(?i)^Set-Cookie:\s*([^=;\s]+)=([^;]*)(;.*)?$`)
)

const upperHex = "0123456789ABCDEF"

// URLEncode applies the legacy application/x-www-form-urlencoded escaping the
// login endpoints expect: space becomes '+', '&', '=', '+' and '%' are
// escaped, as is every byte outside printable ASCII.
func URLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == ' ':
			b.WriteByte('+')
		case ch < 0x20 || ch > 0x7E, ch == '&', ch == '=', ch == '+', ch == '%':
			b.WriteByte('%')
			b.WriteByte(upperHex[ch>>4])
			b.WriteByte(upperHex[ch&0x0F])
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// EncodeForm builds a form body. Field order is not significant to the server.
func EncodeForm(form map[string]string) string {
	pairs := make([]string, 0, len(form))
	for key, value := range form {
		pairs = append(pairs, URLEncode(key)+"="+URLEncode(value))
	}
	return strings.Join(pairs, "&")
}

// CookieString renders the jar as the value of a Cookie request header.
func CookieString(jar *Jar) string {
	values := jar.Values()
	pairs := make([]string, 0, len(values))
	for name, value := range values {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, "; ")
}

// ParseSetCookie folds every "Set-Cookie: name=value; ..." line into jar,
// replacing earlier values. Other lines are ignored.
func ParseSetCookie(lines []string, jar *Jar) int {
	n := 0
	for _, line := range lines {
		m := setCookieRe.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil {
			continue
		}
		jar.SetCookie(m[1], Cookie{
			Value:      strings.TrimSpace(m[2]),
			Attributes: parseCookieAttributes(m[3]),
		})
		n++
	}
	return n
}

func parseCookieAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		attrs[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return attrs
}

// ParseStatusLine returns the code of the last status line in lines, so the
// final response wins over interim ones, or 0 when there is none.
func ParseStatusLine(lines []string) int {
	code := 0
	for _, line := range lines {
		m := statusLineRe.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil {
			continue
		}
		if parsed, err := strconv.Atoi(m[1]); err == nil {
			code = parsed
		}
	}
	return code
}

// SetCookieLines serialises the jar as response header lines that
// ParseSetCookie reads back into an equal jar.
func SetCookieLines(jar *Jar) []string {
	names := jar.Names()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		c, _ := jar.Cookie(name)
		line := "Set-Cookie: " + name + "=" + c.Value
		keys := make([]string, 0, len(c.Attributes))
		for k := range c.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := c.Attributes[k]; v != "" {
				line += "; " + k + "=" + v
			} else {
				line += "; " + k
			}
		}
		lines = append(lines, line)
	}
	return lines
}
