package tls

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/caddyserver/certmagic"
	"github.com/rs/zerolog/log"
)

// Serve runs the handler over auto-managed TLS for the configured
// domain, obtaining and renewing the certificate via ACME.
func Serve(ctx context.Context, handler http.Handler) error {
	if config.Misc.Email != "" {
		certmagic.DefaultACME.Email = config.Misc.Email
	}
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.CA = certmagic.LetsEncryptProductionCA

	magic := certmagic.NewDefault()

	err := magic.ManageSync(ctx, []string{config.Misc.Domain})
	if err != nil {
		return err
	}

	tlsConfig := magic.TLSConfig()
	tlsConfig.NextProtos = append([]string{"h2", "http/1.1"}, tlsConfig.NextProtos...)

	ln, err := tls.Listen("tcp", ":"+config.Misc.Port, tlsConfig)
	if err != nil {
		return err
	}

	server := &http.Server{Handler: handler}

	go func() {
		<-ctx.Done()
		log.Info().Str("context", "cancelled").Msg("tls")
		server.Shutdown(context.Background())
	}()

	return server.Serve(ln)
}
