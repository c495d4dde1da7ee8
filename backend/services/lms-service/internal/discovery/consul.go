package discovery

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Registration is the service's entry in Consul; Deregister removes it.
type Registration struct {
	client *consulapi.Client
	id     string
	log    *zap.SugaredLogger
}

// Register announces name at host:port with an HTTP health check on healthPath.
func Register(addr, name, host string, port int, healthPath string, log *zap.SugaredLogger) (*Registration, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%s-%s-%d", name, host, port)
	reg := &consulapi.AgentServiceRegistration{
		ID:      id,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", host, port, healthPath),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return nil, err
	}
	log.Infow("registered with consul", "id", id, "addr", addr)
	return &Registration{client: client, id: id, log: log}, nil
}

func (r *Registration) Deregister() error {
	if r == nil {
		return nil
	}
	if err := r.client.Agent().ServiceDeregister(r.id); err != nil {
		return err
	}
	r.log.Infow("deregistered from consul", "id", r.id)
	return nil
}
