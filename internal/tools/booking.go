package tools

import (
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"

	"github.com/vahanlabs/mahindrabot/internal/booking"
)

// BookRide starts the test drive flow: it issues an OTP for the user and
// hands it to the notifier for out-of-band delivery. The response never
// contains the OTP.
func (k *Kit) BookRide(ctx *ai.ToolContext, input BookRideInput) (Result, error) {
	if input.Name == "" || input.PhoneNumber == "" {
		return failure(ErrCodeValidation, "both name and phone_number are required"), nil
	}

	otp, err := k.bookings.Begin(input.Name, input.PhoneNumber)
	if err != nil {
		k.logger.Error("starting booking failed", "error", err)
		return failure(ErrCodeInternal, "could not start the booking, please try again"), nil
	}

	if k.notifier != nil {
		k.notifier.OTPIssued(ctx.Context, input.Name, input.PhoneNumber, otp)
	}

	return success(map[string]any{
		"message": fmt.Sprintf(
			"Thank you, %s! We've initiated your test drive booking. "+
				"An OTP has been sent to %s. Please provide the OTP to confirm your booking.",
			input.Name, input.PhoneNumber,
		),
	}), nil
}

// ConfirmRide completes a booking by OTP. Confirmed bookings are recorded
// best-effort; a recorder failure doesn't undo the confirmation.
func (k *Kit) ConfirmRide(ctx *ai.ToolContext, input ConfirmRideInput) (Result, error) {
	if input.OTP == "" {
		return failure(ErrCodeValidation, "otp is required"), nil
	}

	c, err := k.bookings.Confirm(input.OTP)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidOTP) {
			return failure(ErrCodeValidation,
				"Invalid or expired OTP. Please request a new booking or check the OTP and try again."), nil
		}
		k.logger.Error("confirming booking failed", "error", err)
		return failure(ErrCodeInternal, "could not confirm the booking, please try again"), nil
	}

	if k.recorder != nil && !c.Override {
		if err := k.recorder.Record(ctx.Context, c.Name, c.Phone, time.Now()); err != nil {
			k.logger.Warn("recording confirmed booking failed", "error", err)
		}
	}

	if c.Override {
		return success(map[string]any{
			"message": "Booking confirmed with internal OTP. The booking process is complete.",
		}), nil
	}
	return success(map[string]any{
		"message": fmt.Sprintf(
			"Booking confirmed! Thank you, %s. Our team will contact you shortly to schedule your test drive.",
			c.Name,
		),
	}), nil
}
