package store

import "github.com/quantmind-br/see/internal/domain"

// Data is the on-disk layout of the store file
type Data struct {
	Token string            `json:"token,omitempty"`
	List  []domain.Template `json:"list"`

	// Cookie is the token field written by older releases; it is read once and dropped
	Cookie string `json:"cookie,omitempty"`
}

// NewData creates empty store data
func NewData() *Data {
	return &Data{List: []domain.Template{}}
}

// Names returns the template names in insertion order
func (d *Data) Names() []string {
	names := make([]string, 0, len(d.List))
	for _, t := range d.List {
		names = append(names, t.Name)
	}
	return names
}

// Lookup returns the template with the given name
func (d *Data) Lookup(name string) (domain.Template, bool) {
	for _, t := range d.List {
		if t.Name == name {
			return t, true
		}
	}
	return domain.Template{}, false
}

// Merge replaces the URL of templates whose name already exists and appends the rest
func (d *Data) Merge(items ...domain.Template) {
	for _, item := range items {
		replaced := false
		for i := range d.List {
			if d.List[i].Name == item.Name {
				d.List[i].URL = item.URL
				replaced = true
				break
			}
		}
		if !replaced {
			d.List = append(d.List, item)
		}
	}
}

// Remove deletes the named template and reports whether it existed
func (d *Data) Remove(name string) bool {
	for i, t := range d.List {
		if t.Name == name {
			d.List = append(d.List[:i], d.List[i+1:]...)
			return true
		}
	}
	return false
}

// normalize upgrades data written by older releases
func (d *Data) normalize() {
	if d.Token == "" && d.Cookie != "" {
		d.Token = d.Cookie
	}
	d.Cookie = ""
	if d.List == nil {
		d.List = []domain.Template{}
	}
}
