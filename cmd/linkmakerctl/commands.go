package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	v1 "github.com/Totarae/shortio-linkmaker/internal/grpc/v1"
	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/spf13/pflag"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// dispatch входит по токену оператора и выполняет подкоманду.
func dispatch(ctx context.Context, client *v1.Client, token string, args []string, out io.Writer) error {
	login, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return err
	}
	resp, err := client.Login(ctx, login)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+resp.GetFields()["session"].GetStringValue())

	switch {
	case len(args) >= 2 && args[0] == "settings" && args[1] == "get":
		return settingsGet(ctx, client, args[2:], out)
	case len(args) >= 2 && args[0] == "settings" && args[1] == "set":
		return settingsSet(ctx, client, args[2:], out)
	case len(args) >= 1 && args[0] == "create":
		return create(ctx, client, args[1:], out)
	}
	return errors.New(usage)
}

func settingsGet(ctx context.Context, client *v1.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("settings get", pflag.ContinueOnError)
	scope := fs.String("scope", string(model.ScopeSite), "site or network")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := structpb.NewStruct(map[string]any{"scope": *scope})
	if err != nil {
		return err
	}
	resp, err := client.GetSettings(ctx, req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, jsonutil.Pretty(resp.AsMap()))
	return err
}

// settingFlags имена флагов settings set для строковых ключей.
var settingFlags = map[model.SettingKey]string{
	model.KeyAPIKey:   "api-key",
	model.KeyDomain:   "domain",
	model.KeyDomainID: "domain-id",
	model.KeyBaseURL:  "base-url",
}

func settingsSet(ctx context.Context, client *v1.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("settings set", pflag.ContinueOnError)
	scope := fs.String("scope", string(model.ScopeSite), "site or network")
	values := make(map[model.SettingKey]*string, len(settingFlags))
	for key, name := range settingFlags {
		values[key] = fs.String(name, "", string(key))
	}
	cloak := fs.Bool("cloak-default", false, "cloak links by default")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := map[string]any{"scope": *scope}
	for key, name := range settingFlags {
		if fs.Changed(name) {
			m[string(key)] = *values[key]
		}
	}
	if fs.Changed("cloak-default") {
		m[string(model.KeyCloakDefault)] = *cloak
	}
	if len(m) == 1 {
		return errors.New("nothing to set")
	}

	req, err := structpb.NewStruct(m)
	if err != nil {
		return err
	}
	resp, err := client.SaveSettings(ctx, req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, jsonutil.Pretty(resp.AsMap()))
	return err
}

func create(ctx context.Context, client *v1.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	fields := []string{"company", "skill1", "skill2", "skill3", "skill4", "skill5", "mytitle", "yourtitle", "slug"}
	values := make(map[string]*string, len(fields))
	for _, name := range fields {
		values[name] = fs.String(name, "", name)
	}
	cloak := fs.Bool("cloak", false, "cloak this link (default from settings)")
	dryRun := fs.Bool("dry-run", false, "do not call Short.io, just show steps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := map[string]any{"dry_run": *dryRun}
	for name, v := range values {
		m[name] = *v
	}
	if fs.Changed("cloak") {
		m["cloak"] = *cloak
	}

	req, err := structpb.NewStruct(m)
	if err != nil {
		return err
	}
	resp, err := client.CreateLink(ctx, req)
	if err != nil {
		return err
	}

	f := resp.GetFields()
	if _, err := fmt.Fprint(out, f["transcript"].GetStringValue()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nLink: %s\n", f["primary_url"].GetStringValue())
	return err
}
