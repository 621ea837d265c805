package kafka

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/xdg-go/scram"
)

var (
	sha256Generator scram.HashGeneratorFcn = sha256.New
	sha512Generator scram.HashGeneratorFcn = sha512.New
)

// scramClient adapts an xdg-go conversation to sarama.SCRAMClient
type scramClient struct {
	*scram.Client
	*scram.ClientConversation
	scram.HashGeneratorFcn
}

// Begin starts a SCRAM conversation
func (c *scramClient) Begin(userName, password, authzID string) (err error) {
	c.Client, err = c.HashGeneratorFcn.NewClient(userName, password, authzID)
	if err != nil {
		return err
	}
	c.ClientConversation = c.Client.NewConversation()
	return nil
}

// Step answers a server challenge
func (c *scramClient) Step(challenge string) (string, error) {
	return c.ClientConversation.Step(challenge)
}

// Done reports whether the conversation finished
func (c *scramClient) Done() bool {
	return c.ClientConversation.Done()
}
