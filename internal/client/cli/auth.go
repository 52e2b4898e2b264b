package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/smirnovds/townsquare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for email, password and display name and creates an
// account. The session layer waits for the profile row to appear before
// declaring success, so by the time this returns the user is fully
// provisioned and signed in.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	identity, err := a.manager.SignUp(ctx, email, string(password), name)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s!\n", identity.Name)
	return nil
}

// SignIn prompts for credentials and authenticates. Invalid credentials
// surface as a single generic message regardless of which part was wrong.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	identity, err := a.manager.SignIn(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", identity.Name)
	return nil
}

// SignOut ends the session. It always leaves the local state signed out,
// even when the backend could not be reached.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.manager.SignOut(ctx); err != nil {
		a.logger.Warn(ctx, "sign-out finished with errors", "error", err)
	}
	a.newsCtl.Invalidate()
	a.eventsCtl.Invalidate()
	fmt.Println("Signed out.")
	return nil
}

// WhoAmI prints the current profile, fetching it if the cached copy is gone.
// With no session at all there is nobody to report, which is not an error.
func (a *App) WhoAmI(ctx context.Context) error {
	return a.guarded(ctx, func(ctx context.Context) error {
		identity, err := a.manager.GetCurrentIdentity(ctx)
		if err != nil {
			return err
		}
		if identity == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
		return nil
	})
}
