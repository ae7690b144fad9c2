package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/attendance"
	"github.com/SC0R9I0N/qr-class-manager/internal/bootstrap"
	"github.com/SC0R9I0N/qr-class-manager/internal/identity"
	"github.com/SC0R9I0N/qr-class-manager/internal/qrpayload"
	"github.com/SC0R9I0N/qr-class-manager/internal/token"
	"github.com/SC0R9I0N/qr-class-manager/internal/version"

	"github.com/urfave/cli/v2"
)

// Process exit codes.
const (
	exitFailure        = 1
	exitConfig         = 2
	exitSessionExpired = 3
)

const messageInvalidQR = "Invalid QR code format"

func serverAction(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.ServerAddr = c.String("addr")
	}
	if err := bootstrap.Run(c.Context, cfg); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	return nil
}

// openSession loads the configuration and the client collaborators.
func openSession(c *cli.Context) (*session, error) {
	cfg, err := configFrom(c)
	if err != nil {
		return nil, err
	}
	s, err := newSession(c.Context, cfg)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitConfig)
	}
	return s, nil
}

func registerAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	password, err := passwordFrom(c)
	if err != nil {
		return err
	}

	result, err := s.provider.Register(c.Context, c.String("email"), password)
	if err != nil {
		return cli.Exit("Registration failed: "+identity.Message(err), exitFailure)
	}

	w := c.App.Writer
	if result.UserConfirmed {
		fmt.Fprintln(w, "Account created and confirmed. You can log in now.")
		return nil
	}
	fmt.Fprintln(w, "Account created. Check your email for the confirmation code.")
	if result.Destination != "" {
		fmt.Fprintf(w, "Code sent via %s to %s\n", result.DeliveryMedium, result.Destination)
	}
	return nil
}

func confirmAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.provider.Confirm(c.Context, c.String("email"), c.String("code")); err != nil {
		return cli.Exit("Confirmation failed: "+identity.Message(err), exitFailure)
	}
	fmt.Fprintln(c.App.Writer, "Account confirmed. You can log in now.")
	return nil
}

func loginAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	password, err := passwordFrom(c)
	if err != nil {
		return err
	}

	claims, err := s.manager.Login(c.Context, c.String("username"), password)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotConfirmed) {
			return cli.Exit("Login failed: account not confirmed, run confirm first", exitFailure)
		}
		return cli.Exit("Login failed: "+identity.Message(err), exitFailure)
	}

	fmt.Fprintf(c.App.Writer, "Logged in as %s\n", displayName(claims))
	if len(claims.Groups) > 0 {
		fmt.Fprintf(c.App.Writer, "Groups: %s\n", strings.Join(claims.Groups, ", "))
	}
	fmt.Fprintf(c.App.Writer, "Session valid until %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func logoutAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.manager.Logout(c.Context); err != nil {
		return cli.Exit("Logout failed: "+err.Error(), exitFailure)
	}
	fmt.Fprintln(c.App.Writer, "Logged out.")
	return nil
}

func tokenAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w := c.App.Writer
	if c.Bool("raw") {
		idToken, err := s.manager.GetValidToken(c.Context)
		if err != nil {
			return cli.Exit(attendance.MessageSessionExpired, exitSessionExpired)
		}
		fmt.Fprintln(w, idToken)
		return nil
	}

	status, err := s.manager.Status(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	if !status.LoggedIn {
		fmt.Fprintln(w, "Not logged in.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if status.Claims != nil {
		fmt.Fprintf(tw, "User:\t%s\n", displayName(status.Claims))
		fmt.Fprintf(tw, "Subject:\t%s\n", status.Claims.Subject)
		fmt.Fprintf(tw, "Groups:\t%s\n", strings.Join(status.Claims.Groups, ", "))
		fmt.Fprintf(tw, "Expires:\t%s\n", status.ExpiresAt.Local().Format(time.RFC1123))
	}
	fmt.Fprintf(tw, "Expired:\t%t\n", status.Expired)
	fmt.Fprintf(tw, "Can refresh:\t%t\n", status.CanRefresh)
	return tw.Flush()
}

func scanAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	engine, err := s.newEngine(c.String("location"))
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	if err := engine.Resume(c.Context); err != nil {
		return cli.Exit(attendance.MessageSessionExpired, exitSessionExpired)
	}

	w := c.App.Writer
	if !c.Bool("stdin") {
		raw := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
		if raw == "" {
			return cli.Exit("nothing to scan: pass the QR code text or use --stdin", exitConfig)
		}
		outcome, err := engine.Scan(c.Context, raw)
		if errors.Is(err, attendance.ErrValidation) {
			return cli.Exit(messageInvalidQR, exitFailure)
		}
		if outcome == nil {
			return cli.Exit(err.Error(), exitFailure)
		}
		return outcomeExit(w, outcome)
	}

	// Continuous mode: every line is one decoder result
	lines := bufio.NewScanner(c.App.Reader)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || qrpayload.IsNoCodeNoise(line) {
			continue
		}

		outcome, err := engine.Scan(c.Context, line)
		if errors.Is(err, attendance.ErrValidation) {
			fmt.Fprintln(w, messageInvalidQR)
			continue
		}
		if outcome == nil {
			return cli.Exit(err.Error(), exitFailure)
		}
		writeOutcome(w, outcome)
		if errors.Is(outcome.Err, attendance.ErrSessionExpired) {
			return cli.Exit("", exitSessionExpired)
		}

		engine.Reset()
		if err := engine.Resume(c.Context); err != nil {
			return cli.Exit(attendance.MessageSessionExpired, exitSessionExpired)
		}
	}
	return lines.Err()
}

// outcomeExit prints outcome and maps it to the process exit status.
// A duplicate scan exits zero: the student is marked present.
func outcomeExit(w io.Writer, outcome *attendance.Outcome) error {
	writeOutcome(w, outcome)
	switch {
	case outcome.Success():
		return nil
	case errors.Is(outcome.Err, attendance.ErrSessionExpired):
		return cli.Exit("", exitSessionExpired)
	default:
		return cli.Exit("", exitFailure)
	}
}

func writeOutcome(w io.Writer, outcome *attendance.Outcome) {
	switch outcome.State {
	case attendance.StateRecorded:
		fmt.Fprintln(w, "Attendance marked successfully!")
		className := outcome.ClassName
		if className == "" {
			className = outcome.ClassID
		}
		fmt.Fprintf(w, "  Class: %s\n", className)
		if outcome.ClassName != "" && outcome.ClassID != "" {
			fmt.Fprintf(w, "  Class ID: %s\n", outcome.ClassID)
		}
		fmt.Fprintf(w, "  Time: %s\n", outcome.ScanTimestamp)
		if outcome.DownloadURL != "" {
			fmt.Fprintf(w, "  Materials: %s\n", outcome.DownloadURL)
		}
	case attendance.StateAlreadyRecorded:
		fmt.Fprintln(w, "Attendance marked successfully!")
		fmt.Fprintf(w, "  Note: %s\n", outcome.Message)
		fmt.Fprintf(w, "  Time: %s\n", outcome.ScanTimestamp)
	default:
		fmt.Fprintf(w, "Scan failed: %s\n", outcome.Message)
	}
}

func attendanceAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.newRecordsClient()
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	list, err := records.List(c.Context, attendance.ListFilter{
		SessionID: c.String("session"),
		StudentID: c.String("student"),
	})
	switch {
	case errors.Is(err, attendance.ErrSessionExpired):
		return cli.Exit(attendance.MessageSessionExpired, exitSessionExpired)
	case err != nil:
		return cli.Exit(err.Error(), exitFailure)
	}

	w := c.App.Writer
	if len(list) == 0 {
		fmt.Fprintln(w, "No attendance records.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCANNED\tCLASS\tSESSION\tSTUDENT\tLOCATION")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ScanTimestamp, r.ClassID, r.SessionID, r.StudentID, r.Location)
	}
	return tw.Flush()
}

func versionAction(c *cli.Context) error {
	version.Write(c.App.Writer)
	return nil
}

// passwordFrom returns --password, or reads one line from standard input.
func passwordFrom(c *cli.Context) (string, error) {
	if password := c.String("password"); password != "" {
		return password, nil
	}

	fmt.Fprint(c.App.ErrWriter, "Password: ")
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", cli.Exit("a password is required", exitConfig)
	}
	return password, nil
}

func displayName(claims *token.Claims) string {
	switch {
	case claims.Email != "":
		return claims.Email
	case claims.Username != "":
		return claims.Username
	}
	return claims.Subject
}
