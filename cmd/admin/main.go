package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"dealmein-server/pkg/db"
	"dealmein-server/pkg/model"
)

var command = flag.String("c", "user", "specifies the command (user, leaderboard, dump)")
var id = flag.String("id", "", "the tournament or table id for leaderboard and dump")
var kind = flag.String("kind", "tournament", "the document kind to dump (tournament, table)")

func main() {
	flag.Parse()

	switch *command {
	case "user":
		email := getEmail()
		if email == "" {
			os.Exit(1)
		}

		password := getPassword()
		if password == "" {
			os.Exit(1)
		}

		name, err := getInput("Name")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		if name == "" {
			name = "Admin"
		}

		ctx := context.Background()
		accounts := model.NewAccounts(db.Instance())
		account, err := accounts.Create(ctx, model.Signup{
			Email:       email,
			DisplayName: name,
			Password:    password,
			RemoteAddr:  "127.0.0.1",
		})
		if err != nil {
			logrus.WithError(err).Fatal("could not create account")
		}

		fmt.Printf("Created account %d\n", account.ID)

		promote, err := getInput("Make admin (Y/n)")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		if promote == "" || strings.ToLower(promote)[0] == 'y' {
			if err := accounts.Promote(ctx, account.ID); err != nil {
				logrus.WithError(err).Fatal("could not promote account to admin")
			}

			fmt.Printf("Account promoted to admin\n")
		}

	case "leaderboard":
		if err := leaderboard(context.Background(), requireID()); err != nil {
			logrus.WithError(err).Fatal("could not print the leaderboard")
		}

	case "dump":
		if err := dump(context.Background(), *kind, requireID()); err != nil {
			logrus.WithError(err).Fatal("could not dump the document")
		}

	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func getPassword() string {
	for {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(0)
		if err != nil {
			continue
		}
		fmt.Println("")

		password := strings.TrimRight(string(pwBytes), "\r\n")

		if password == "" {
			return ""
		}

		if len(password) < model.MinPasswordLength {
			_, _ = fmt.Fprintf(os.Stderr, "password must be 6 or more characters\n")
			continue
		}

		return password
	}
}

func getEmail() string {
	for {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		str, err := reader.ReadString('\n')
		if err != nil {
			logrus.WithError(err).Warn("could not read email")
		}

		str = strings.TrimRight(str, "\r\n")

		if str == "" {
			return ""
		}

		if err := checkmail.ValidateFormat(str); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			continue
		}

		return str
	}
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}

func requireID() string {
	if *id == "" {
		logrus.Fatal("-id is required")
	}

	return *id
}
