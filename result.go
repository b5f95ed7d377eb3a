package dwtwatermark

import "fmt"

// Result is the outcome of one Verify call.
type Result struct {
	Channels  [3]float64 // SSIM of the R, G and B channels
	SSIM      float64    // mean of Channels
	MSE       float64    // over all pixels of all channels
	PSNR      float64    // dB, core.PSNRIdentical when MSE is zero
	Threshold float64
	Verified  bool
}

// Message renders the verdict the way it is shown to a user.
func (r *Result) Message() string {
	if r.Verified {
		return fmt.Sprintf("Watermark Verified ✅\nSSIM: %.4f\nPSNR: %.2f dB", r.SSIM, r.PSNR)
	}
	return fmt.Sprintf("Watermark Tampered ❌\nSSIM: %.4f\nPSNR: %.2f dB", r.SSIM, r.PSNR)
}

func (r *Result) String() string {
	verdict := "tampered"
	if r.Verified {
		verdict = "verified"
	}
	return fmt.Sprintf("%s ssim=%.4f (r=%.4f g=%.4f b=%.4f) psnr=%.2fdB threshold=%.2f",
		verdict, r.SSIM, r.Channels[0], r.Channels[1], r.Channels[2], r.PSNR, r.Threshold)
}
