package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"

	"github.com/pshail/kmirror/internal/output"
	"github.com/pshail/kmirror/pkg/kube"
	"github.com/pshail/kmirror/pkg/reflector"
)

// mirrorOptions holds the flag values for the mirror command.
type mirrorOptions struct {
	namespace     string
	labelSelector string
	fieldSelector string
	interval      time.Duration
	outputFormat  string
	kubeconfig    string
}

// supportedResources maps the resource argument to its mirror entry point.
// Each resource needs its own instantiation because the reflector is generic
// over the concrete API type.
var supportedResources = map[string]func(ctx context.Context, cmd *cobra.Command, lw cache.ListerWatcher, opts *mirrorOptions) error{
	"pods":       runMirror[*corev1.Pod],
	"services":   runMirror[*corev1.Service],
	"configmaps": runMirror[*corev1.ConfigMap],
}

// newMirrorCmd creates the Cobra command that runs a live mirror of a
// core/v1 resource collection and renders it periodically.
func newMirrorCmd() *cobra.Command {
	opts := &mirrorOptions{}

	cmd := &cobra.Command{
		Use:   "mirror <resource>",
		Short: "Continuously mirror a resource collection from the cluster",
		Long: `Mirror runs a reflector against the cluster: an initial full list, then
incremental watch sessions that keep the local state current. The mirrored
state is rendered on every interval tick. Supported resources: pods,
services, configmaps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := args[0]
			run, ok := supportedResources[resource]
			if !ok {
				return fmt.Errorf("unsupported resource %q (expected pods, services or configmaps)", resource)
			}
			if opts.outputFormat != "table" && opts.outputFormat != "yaml" {
				return fmt.Errorf("unsupported output format %q (expected table or yaml)", opts.outputFormat)
			}

			config, err := kube.LoadConfig(opts.kubeconfig)
			if err != nil {
				return err
			}
			clientset, err := kubernetes.NewForConfig(config)
			if err != nil {
				return fmt.Errorf("creating Kubernetes client: %w", err)
			}
			lw := kube.NewCoreListerWatcher(clientset, resource, opts.namespace)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd, lw, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to mirror (empty for all namespaces)")
	cmd.Flags().StringVarP(&opts.labelSelector, "selector", "l", "", "Label selector to filter the collection")
	cmd.Flags().StringVar(&opts.fieldSelector, "field-selector", "", "Field selector to filter the collection")
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "How often to render the mirrored state")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "table", "Output format (table or yaml)")
	cmd.Flags().StringVar(&opts.kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (defaults to client-go resolution rules)")

	return cmd
}

// runMirror wires a reflector and its runner for one concrete resource type
// and renders the mirror until the context ends.
func runMirror[K kube.Resource](ctx context.Context, cmd *cobra.Command, lw cache.ListerWatcher, opts *mirrorOptions) error {
	refl := reflector.New[K](
		kube.NewListerWatcher[K](lw),
		reflector.WithNamespace(opts.namespace),
		reflector.WithParams(reflector.Params{
			LabelSelector:  opts.labelSelector,
			FieldSelector:  opts.fieldSelector,
			AllowBookmarks: true,
		}),
	)
	runner := reflector.NewRunner(refl)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(ctx) })
	g.Go(func() error { return renderLoop(ctx, cmd, refl, opts) })

	// Cancellation via signal is the normal way out.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func renderLoop[K kube.Resource](ctx context.Context, cmd *cobra.Command, refl *reflector.Reflector[K], opts *mirrorOptions) error {
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := render(cmd, refl, opts.outputFormat); err != nil {
				return err
			}
		}
	}
}

func render[K kube.Resource](cmd *cobra.Command, refl *reflector.Reflector[K], format string) error {
	objs := refl.State()
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "%d objects at resourceVersion=%s\n", len(objs), refl.Version())
	if format == "yaml" {
		docs := make([]interface{}, len(objs))
		for i, obj := range objs {
			docs[i] = obj
		}
		return output.YAML(w, docs)
	}

	rows := make([]reflector.Object, len(objs))
	for i, obj := range objs {
		rows[i] = obj
	}
	output.Table(w, rows)
	return nil
}
