package core

type (
	// Logger logs messages with optional context args: error, map[string]interface{}, Actor.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Actor is whoever triggered the logged operation (the submitter of an attendance sheet or a file).
	Actor struct {
		ID   string
		Name string
	}
)
