// Package dto provides HTTP layer data transfer objects.
package dto

// EnvCheckResponse reports which required settings are present and the
// active tunables. Secret values themselves are never included.
type EnvCheckResponse struct {
	OpenAI bool   `json:"OPENAI"`
	Mongo  bool   `json:"MONGO"`
	Model  string `json:"MODEL"`
	Port   int    `json:"PORT"`
}
