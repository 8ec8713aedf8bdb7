package nicolive

import "sort"

type Cookie struct {
	Value      string
	Attributes map[string]string
}

// Jar is an unordered name to cookie mapping. It is not safe for concurrent
// use on its own; the Client serialises access to it.
type Jar struct {
	cookies map[string]Cookie
}

func NewJar() *Jar {
	return &Jar{cookies: make(map[string]Cookie)}
}

func (j *Jar) Set(name, value string) {
	j.SetCookie(name, Cookie{Value: value})
}

func (j *Jar) SetCookie(name string, c Cookie) {
	if j.cookies == nil {
		j.cookies = make(map[string]Cookie)
	}
	j.cookies[name] = c
}

func (j *Jar) Get(name string) (string, bool) {
	if j == nil {
		return "", false
	}
	c, ok := j.cookies[name]
	return c.Value, ok
}

func (j *Jar) Cookie(name string) (Cookie, bool) {
	if j == nil {
		return Cookie{}, false
	}
	c, ok := j.cookies[name]
	return c, ok
}

func (j *Jar) Delete(name string) {
	delete(j.cookies, name)
}

func (j *Jar) Clear() {
	j.cookies = make(map[string]Cookie)
}

func (j *Jar) Len() int {
	if j == nil {
		return 0
	}
	return len(j.cookies)
}

// Names returns the cookie names in sorted order. Values are left out so the
// result is safe to log.
func (j *Jar) Names() []string {
	if j == nil {
		return nil
	}
	names := make([]string, 0, len(j.cookies))
	for name := range j.cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (j *Jar) Values() map[string]string {
	values := make(map[string]string, j.Len())
	if j == nil {
		return values
	}
	for name, c := range j.cookies {
		values[name] = c.Value
	}
	return values
}

func (j *Jar) Clone() *Jar {
	clone := NewJar()
	if j == nil {
		return clone
	}
	for name, c := range j.cookies {
		attrs := make(map[string]string, len(c.Attributes))
		for k, v := range c.Attributes {
			attrs[k] = v
		}
		clone.cookies[name] = Cookie{Value: c.Value, Attributes: attrs}
	}
	return clone
}

// Authenticated reports whether the jar carries a usable session cookie.
func (j *Jar) Authenticated() bool {
	value, ok := j.Get(SessionCookie)
	return ok && validSession(value)
}

func validSession(value string) bool {
	return value != "" && value != "deleted"
}
