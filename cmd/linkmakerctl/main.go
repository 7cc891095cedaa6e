// Command linkmakerctl клиент оператора для gRPC-интерфейса Link Maker.
//
// Использование:
//
//	linkmakerctl [--addr host:port] [--token T] settings get [--scope site|network]
//	linkmakerctl [--addr host:port] [--token T] settings set [--scope ...] [--domain ...] ...
//	linkmakerctl [--addr host:port] [--token T] create --company ... --skill1 ... --skill2 ... [--dry-run]
//
// Токен оператора также читается из LINKMAKER_TOKEN, адрес из LINKMAKER_GRPC_ADDRESS.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	v1 "github.com/Totarae/shortio-linkmaker/internal/grpc/v1"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const usage = "expected 'settings get', 'settings set' or 'create' subcommands"

type globalOptions struct {
	addr    string
	token   string
	tls     bool
	timeout time.Duration
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "linkmakerctl:", err)
		os.Exit(1)
	}
}

func parseGlobal(args []string) (globalOptions, []string, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("linkmaker")
	v.AutomaticEnv()
	v.SetDefault("grpc_address", "localhost:3200")
	v.SetDefault("timeout", time.Minute)

	fs := pflag.NewFlagSet("linkmakerctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	addr := fs.String("addr", "", "gRPC server address")
	token := fs.String("token", "", "operator token")
	useTLS := fs.Bool("tls", false, "use TLS")
	timeout := fs.Duration("timeout", 0, "request timeout")
	if err := fs.Parse(args); err != nil {
		return globalOptions{}, nil, err
	}

	opts := globalOptions{
		addr:    v.GetString("grpc_address"),
		token:   v.GetString("token"),
		tls:     *useTLS,
		timeout: v.GetDuration("timeout"),
	}
	if *addr != "" {
		opts.addr = *addr
	}
	if *token != "" {
		opts.token = *token
	}
	if *timeout > 0 {
		opts.timeout = *timeout
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, rest, err := parseGlobal(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.New(usage)
	}
	if opts.token == "" {
		return errors.New("operator token is required (--token or LINKMAKER_TOKEN)")
	}

	creds := insecure.NewCredentials()
	if opts.tls {
		creds = credentials.NewTLS(nil)
	}
	conn, err := grpc.NewClient(opts.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	return dispatch(ctx, v1.NewClient(conn), opts.token, rest, out)
}
