package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/folioapp/folio-go/internal/clients/folioapi"
	"github.com/folioapp/folio-go/internal/common"
	"github.com/folioapp/folio-go/internal/interfaces"
	"github.com/folioapp/folio-go/internal/models"
	"github.com/folioapp/folio-go/internal/services/profile"
	"github.com/folioapp/folio-go/internal/services/report"
)

const usage = `usage: folio-cli <command> [flags]

commands:
  show                     load and display account and profile
  set-account              update account fields (see flags)
  set-profile              create or update the investment profile
  learn                    increment learning progress
  verify-email             request server-side email verification
  check-email <email>      check email availability (no auth)
  check-username <name>    check username availability (no auth)
  chart                    render goal progress chart to PNG
  whoami                   show current token claims
  version                  print version`

func main() {
	// Optional .env for local development; real config comes from TOML + env.
	_ = godotenv.Load()

	common.LoadVersionFromFile()

	config, err := common.LoadConfig(os.Getenv("FOLIO_CONFIG"), "folio.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	if command == "version" {
		fmt.Println(common.GetFullVersion())
		return
	}

	creds := common.NewCredentialStore(&config.Auth)
	client := folioapi.NewClient(creds.Source(),
		folioapi.WithBaseURL(config.API.BaseURL),
		folioapi.WithRateLimit(config.API.RateLimit),
		folioapi.WithTimeout(config.API.GetTimeout()),
		folioapi.WithLogger(logger),
	)
	formatter := common.NewFormatter(config.Display.Locale, config.Display.Currency)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, command, args, config, logger, client, creds, formatter); err != nil {
		logger.Error().Err(err).Str("command", command).Msg("Command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, config *common.Config, logger *common.Logger, client interfaces.UserClient, creds *common.CredentialStore, formatter *common.Formatter) error {
	switch command {
	case "show":
		common.PrintBanner(config, logger)
		return runShow(ctx, client, logger, formatter)
	case "set-account":
		return runSetAccount(ctx, args, client, logger)
	case "set-profile":
		return runSetProfile(ctx, args, client, logger)
	case "learn":
		return runLearn(ctx, client, logger)
	case "verify-email":
		return runVerifyEmail(ctx, client, logger)
	case "check-email":
		if len(args) != 1 {
			return fmt.Errorf("check-email requires exactly one argument")
		}
		available, err := client.CheckEmailAvailable(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: available=%v\n", args[0], available)
		return nil
	case "check-username":
		if len(args) != 1 {
			return fmt.Errorf("check-username requires exactly one argument")
		}
		available, err := client.CheckUsernameAvailable(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: available=%v\n", args[0], available)
		return nil
	case "chart":
		return runChart(ctx, args, client, logger, config)
	case "whoami":
		return runWhoami(creds, formatter)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// openSession loads a session or reports why it could not load.
func openSession(ctx context.Context, client interfaces.UserClient, logger *common.Logger) (*profile.Session, error) {
	session := profile.NewSession(client, logger)
	if err := session.Open(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func runShow(ctx context.Context, client interfaces.UserClient, logger *common.Logger, formatter *common.Formatter) error {
	session, err := openSession(ctx, client, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	printAccount(session.Account(), formatter)
	printProfile(session.Profile(), formatter)
	return nil
}

func runSetAccount(ctx context.Context, args []string, client interfaces.UserClient, logger *common.Logger) error {
	fs := flag.NewFlagSet("set-account", flag.ExitOnError)
	email := fs.String("email", "", "new email address")
	password := fs.String("password", "", "new password")
	question := fs.String("security-question", "", "new security question")
	answer := fs.String("security-answer", "", "new security answer")
	risk := fs.String("risk", "", "risk tolerance: CONSERVATIVE, MODERATE or AGGRESSIVE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, client, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	session.EditAccount()
	draft := session.AccountDraft()
	if *email != "" {
		draft.Email = email
	}
	if *password != "" {
		draft.Password = password
	}
	if *question != "" {
		draft.SecurityQuestion = question
	}
	if *answer != "" {
		draft.SecurityAnswer = answer
	}
	if *risk != "" {
		rt := models.RiskTolerance(strings.ToUpper(*risk))
		draft.RiskTolerance = &rt
	}

	if err := session.SaveAccount(ctx); err != nil {
		return err
	}
	fmt.Println(session.Notice())
	return nil
}

func runSetProfile(ctx context.Context, args []string, client interfaces.UserClient, logger *common.Logger) error {
	fs := flag.NewFlagSet("set-profile", flag.ExitOnError)
	experience := fs.String("experience", "", "experience level: BEGINNER, INTERMEDIATE or ADVANCED")
	goal := fs.String("goal", "", "investment goal")
	personal := fs.String("personal-goal", "", "personal financial goal")
	types := fs.String("types", "", "comma-separated preferred investment types to toggle")
	targetAmount := fs.Float64("target-amount", 0, "investment goal target amount")
	targetDate := fs.String("target-date", "", "investment goal target date (YYYY-MM-DD)")
	personalAmount := fs.Float64("personal-amount", 0, "personal goal amount")
	personalDesc := fs.String("personal-desc", "", "personal goal description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, client, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	session.EditProfile()
	draft := session.ProfileDraft()
	if *experience != "" {
		el := models.ExperienceLevel(strings.ToUpper(*experience))
		draft.ExperienceLevel = &el
	}
	if *goal != "" {
		ig := models.InvestmentGoal(strings.ToUpper(*goal))
		draft.InvestmentGoal = &ig
	}
	if *personal != "" {
		pg := models.PersonalGoal(strings.ToUpper(*personal))
		draft.PersonalGoal = &pg
	}
	for _, t := range strings.Split(*types, ",") {
		t = strings.TrimSpace(strings.ToUpper(t))
		if t != "" {
			draft.ToggleInvestmentType(models.InvestmentType(t))
		}
	}
	if *targetAmount > 0 {
		draft.GoalTargetAmount = targetAmount
	}
	if *targetDate != "" {
		dt, err := time.Parse("2006-01-02", *targetDate)
		if err != nil {
			return fmt.Errorf("invalid target date: %w", err)
		}
		draft.GoalTargetDate = &dt
	}
	if *personalAmount > 0 {
		draft.PersonalGoalAmount = personalAmount
	}
	if *personalDesc != "" {
		draft.PersonalGoalDescription = personalDesc
	}

	if err := session.SaveProfile(ctx); err != nil {
		return err
	}
	fmt.Println(session.Notice())
	return nil
}

func runLearn(ctx context.Context, client interfaces.UserClient, logger *common.Logger) error {
	session, err := openSession(ctx, client, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.IncrementLearning(ctx); err != nil {
		return err
	}
	fmt.Printf("Learning progress: %d\n", session.Profile().Profile.LearningProgress)
	return nil
}

func runVerifyEmail(ctx context.Context, client interfaces.UserClient, logger *common.Logger) error {
	account, err := client.FetchAccount(ctx)
	if err != nil {
		return err
	}
	if err := client.VerifyEmail(ctx, account.UserID); err != nil {
		return err
	}
	fmt.Println("Verification requested")
	return nil
}

func runChart(ctx context.Context, args []string, client interfaces.UserClient, logger *common.Logger, config *common.Config) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	out := fs.String("o", "goal.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, client, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	loaded := session.Profile()
	if !loaded.Present {
		return fmt.Errorf("no profile set; run set-profile first")
	}
	currency := config.Display.Currency
	if acct := session.Account(); acct != nil && acct.Currency != "" {
		currency = acct.Currency
	}

	png, err := report.RenderGoalProgressChart(&loaded.Profile, currency)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Printf("Wrote %s\n", *out)
	return nil
}

func runWhoami(creds *common.CredentialStore, formatter *common.Formatter) error {
	token := creds.Token()
	if token == "" {
		return fmt.Errorf("no token held; set FOLIO_TOKEN or the token file")
	}
	claims, err := common.InspectToken(token)
	if err != nil {
		return err
	}
	fmt.Printf("Subject:  %s\n", claims.Subject)
	if claims.Email != "" {
		fmt.Printf("Email:    %s\n", claims.Email)
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s", formatter.DateTime(claims.ExpiresAt))
		if claims.Expired() {
			fmt.Print("  (expired)")
		}
		fmt.Println()
	}
	return nil
}

func printAccount(a *models.Account, formatter *common.Formatter) {
	if a == nil {
		return
	}
	fmt.Println("Account")
	fmt.Printf("  Username:       %s\n", a.Username)
	fmt.Printf("  Full name:      %s\n", a.FullName)
	fmt.Printf("  Email:          %s", a.Email)
	if a.IsEmailVerified {
		fmt.Print("  (verified)")
	}
	fmt.Println()
	fmt.Printf("  Status:         %s\n", a.AccountStatus)
	fmt.Printf("  Risk tolerance: %s\n", a.RiskTolerance)
	fmt.Printf("  Balance:        %s\n", formatter.Money(a.CurrentBalance, a.Currency))
	fmt.Printf("  Invested:       %s\n", formatter.Money(a.TotalInvested, a.Currency))
	fmt.Printf("  Returns:        %s\n", formatter.Money(a.TotalReturns, a.Currency))
	fmt.Printf("  Net worth:      %s\n", formatter.Money(a.NetWorth, a.Currency))
	fmt.Printf("  Member since:   %s\n", formatter.Date(a.CreatedAt))
}

func printProfile(loaded models.LoadedProfile, formatter *common.Formatter) {
	fmt.Println("Profile")
	if !loaded.Present {
		fmt.Println("  Experience:      Not set")
		fmt.Println("  Investment goal: Not set")
		fmt.Println("  Personal goal:   Not set")
		fmt.Println("  Preferred types: Not set")
		return
	}
	p := loaded.Profile
	fmt.Printf("  Experience:      %s\n", p.ExperienceLevel)
	fmt.Printf("  Investment goal: %s\n", p.InvestmentGoal)
	if p.PersonalGoal != "" {
		fmt.Printf("  Personal goal:   %s\n", p.PersonalGoal)
	} else {
		fmt.Println("  Personal goal:   Not set")
	}
	if len(p.PreferredInvestmentTypes) > 0 {
		labels := make([]string, len(p.PreferredInvestmentTypes))
		for i, t := range p.PreferredInvestmentTypes {
			labels[i] = string(t)
		}
		fmt.Printf("  Preferred types: %s\n", strings.Join(labels, ", "))
	} else {
		fmt.Println("  Preferred types: Not set")
	}
	if p.GoalTargetAmount > 0 {
		fmt.Printf("  Target:          %s", formatter.Money(p.GoalTargetAmount, ""))
		if p.GoalTargetDate != nil {
			fmt.Printf(" by %s", formatter.Date(*p.GoalTargetDate))
		}
		fmt.Println()
		fmt.Printf("  Progress:        %s\n", formatter.Percent(p.BoundedProgress()))
		fmt.Printf("  Countdown:       %s\n", p.GoalCountdownLabel())
	}
	if p.PersonalGoalDescription != "" {
		fmt.Printf("  Personal target: %s (%s)\n", p.PersonalGoalDescription, formatter.Money(p.PersonalGoalAmount, ""))
	}
	fmt.Printf("  Learning:        %d\n", p.LearningProgress)
}
