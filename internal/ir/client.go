package ir

// Client is the resolved document. It is built once per run by the
// assembler and only read afterwards.
type Client struct {
	Models   []*Model
	Services []*Service
	// EnumNames lists the enum names committed while assembling, in commit
	// order.
	EnumNames []string
	Server    string
	Version   string

	index map[string]*Model
}

// Index builds the name lookup used by Model and RefHandle.Resolve.
func (c *Client) Index() {
	c.index = make(map[string]*Model, len(c.Models))
	for _, m := range c.Models {
		if _, ok := c.index[m.Name]; !ok {
			c.index[m.Name] = m
		}
	}
}

// Model returns the top-level model called name. It finds nothing until
// Index has run.
func (c *Client) Model(name string) (*Model, bool) {
	m, ok := c.index[name]
	return m, ok
}

// Operations returns every operation across services in declaration order.
func (c *Client) Operations() []*Operation {
	var out []*Operation
	for _, s := range c.Services {
		out = append(out, s.Operations...)
	}
	return out
}
