package systemprompt

// ContextProvider is an interface that defines the title and info of a context provider
type ContextProvider interface {
	Title() string
	Info() string
}

// FuncProvider is a ContextProvider whose info is computed on every prompt generation
type FuncProvider struct {
	title string
	info  func() string
}

var _ ContextProvider = (*FuncProvider)(nil)

func NewFuncProvider(title string, info func() string) *FuncProvider {
	return &FuncProvider{title: title, info: info}
}

func (p *FuncProvider) Title() string {
	return p.title
}

func (p *FuncProvider) Info() string {
	if p.info == nil {
		return ""
	}
	return p.info()
}
