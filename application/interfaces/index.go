package interfaces

import "net/http"

// ApplicationContext carries a request through the controller layer without
// binding controllers to the HTTP framework.
type ApplicationContext[T any] struct {
	Ctx      interface{}
	Body     *T
	Keys     map[string]any
	Header   http.Header
	DeviceID *string
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	if ac.Keys == nil {
		return nil
	}
	return ac.Keys[key]
}

func (ac *ApplicationContext[T]) SetContextData(key string, value any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = value
}

func (ac *ApplicationContext[T]) GetStringContextData(key string) string {
	value, _ := ac.GetContextData(key).(string)
	return value
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	value := ac.Header.Get(key)
	return &value
}
