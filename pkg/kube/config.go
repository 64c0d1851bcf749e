package kube

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/tools/clientcmd"
)

// LoadConfig resolves a client-go REST configuration. When kubeconfig is
// empty the standard client-go defaulting rules apply (KUBECONFIG, then
// ~/.kube/config); otherwise the given path is used.
func LoadConfig(kubeconfig string) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	return config, nil
}

// NewCoreListerWatcher builds a client-go ListerWatcher for a core/v1
// resource (for example "pods" or "services") in the given namespace. An
// empty namespace spans the whole cluster. Selectors arrive through the
// reflector's Params, so the options modifier is a no-op; the plain
// NewListWatchFromClient constructor would overwrite the per-call field
// selector.
func NewCoreListerWatcher(clientset kubernetes.Interface, resource, namespace string) cache.ListerWatcher {
	return cache.NewFilteredListWatchFromClient(clientset.CoreV1().RESTClient(), resource, namespace, func(*metav1.ListOptions) {})
}
