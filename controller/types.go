/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package controller implements the Request Controller: the per-request
// driver that parses an incoming HTTP request, decides a body-handling
// strategy, consults the turbocache, checks out an Application Pool
// session, forwards bytes in both directions, and returns the session on
// completion (spec §4.7).
package controller

// State is one step of a Request's lifecycle (spec §4.7.1).
type State uint8

const (
	AnalyzingRequest State = iota
	BufferingRequestBody
	CheckingOutSession
	ForwardingHeaderToApp
	ForwardingBodyToApp
	WaitingForAppResponse
	ForwardingResponseToClient
	Ended
)

func (s State) String() string {
	switch s {
	case AnalyzingRequest:
		return "analyzing_request"
	case BufferingRequestBody:
		return "buffering_request_body"
	case CheckingOutSession:
		return "checking_out_session"
	case ForwardingHeaderToApp:
		return "forwarding_header_to_app"
	case ForwardingBodyToApp:
		return "forwarding_body_to_app"
	case WaitingForAppResponse:
		return "waiting_for_app_response"
	case ForwardingResponseToClient:
		return "forwarding_response_to_client"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// AppProtocol names the framing the checked-out socket expects.
type AppProtocol uint8

const (
	AppProtocolHTTP AppProtocol = iota
	AppProtocolSession
)

// BodyStrategy is the outcome of the body-handling decision matrix
// (spec §4.7.2).
type BodyStrategy uint8

const (
	// StrategyReject means the combination of method/Upgrade/framing is
	// invalid and the request must be answered with 400.
	StrategyReject BodyStrategy = iota
	// StrategyUpgradeUnbounded marks an upgrade request with no declared
	// body: body length is unbounded (the upgrade payload itself), and the
	// socket (app-protocol dependent) is kept open or half-closed after
	// forwarding headers.
	StrategyUpgradeUnbounded
	// StrategyNoBody is a request with no body at all.
	StrategyNoBody
	// StrategyForwardBody is a request whose declared body (possibly
	// chunked) must be forwarded to the app.
	StrategyForwardBody
)

// BodyDecision is the resolved strategy plus the socket-close policy that
// follows forwarding.
type BodyDecision struct {
	Strategy       BodyStrategy
	HalfCloseAfter bool // true for "session" protocol sockets
}

// DecideBodyStrategy implements spec §4.7.2's table.
func DecideBodyStrategy(method string, upgrade bool, hasBody bool, proto AppProtocol) BodyDecision {
	isGetOrHead := method == "GET" || method == "HEAD"
	halfClose := proto == AppProtocolSession

	if upgrade {
		if !isGetOrHead {
			return BodyDecision{Strategy: StrategyReject}
		}
		if hasBody {
			return BodyDecision{Strategy: StrategyReject}
		}
		return BodyDecision{Strategy: StrategyUpgradeUnbounded, HalfCloseAfter: halfClose}
	}

	if !hasBody {
		return BodyDecision{Strategy: StrategyNoBody, HalfCloseAfter: halfClose}
	}
	return BodyDecision{Strategy: StrategyForwardBody, HalfCloseAfter: halfClose}
}
