package client

import (
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/transport"
)

// NewPubSub creates a new client for the publish/subscribe system
func NewPubSub(config common.ClientConfig, t transport.IRPCClientTransport) (*PubSub, error) {
	adapter, err := newRPCClientAdapter(config, t)
	if err != nil {
		return nil, err
	}
	return &PubSub{rpcClientAdapter: adapter}, nil
}

// PubSub publishes content to topics and manages the subscriber URLs of topics.
// Delivering notifications to subscribers is done by the store.
type PubSub struct {
	rpcClientAdapter
}

// Publish publishes content under topic. The content is sent as is.
func (p *PubSub) Publish(topic, content string) error {
	raw, err := p.call(common.MethodPublish, topic, content)
	if err != nil {
		return err
	}
	return p.observe(common.MethodPublish, result.ProcessPublish(raw))
}

// Subscribe subscribes url to topic.
func (p *PubSub) Subscribe(topic, url string) error {
	raw, err := p.call(common.MethodSubscribe, topic, url)
	if err != nil {
		return err
	}
	return p.observe(common.MethodSubscribe, result.ProcessSubscribe(raw))
}

// Unsubscribe removes url from the subscribers of topic.
// A KindNotFound error is returned if the topic or url is unknown.
func (p *PubSub) Unsubscribe(topic, url string) error {
	raw, err := p.call(common.MethodUnsubscribe, topic, url)
	if err != nil {
		return err
	}
	return p.observe(common.MethodUnsubscribe, result.ProcessUnsubscribe(raw))
}

// GetSubscribers returns the subscriber URLs of topic (empty for unknown topics).
func (p *PubSub) GetSubscribers(topic string) ([]string, error) {
	raw, err := p.call(common.MethodGetSubscribers, topic)
	if err != nil {
		return nil, err
	}
	subscribers, err := result.ProcessGetSubscribers(raw)
	return subscribers, p.observe(common.MethodGetSubscribers, err)
}
