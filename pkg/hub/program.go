package hub

// DispatcherProgram is the resident MicroPython program for the hub. It
// keeps the motors available and executes `<motor> run <speed>` and
// `<motor> stop` lines read from stdin until an `exit` line arrives.
// Teleoperation streams its commands to this program.
const DispatcherProgram = `from pybricks.hubs import PrimeHub
from pybricks.pupdevices import Motor
from pybricks.parameters import Port

hub = PrimeHub()

motors = {}
for name, port in (("motorA", Port.A), ("motorC", Port.C), ("motorE", Port.E)):
    try:
        motors[name] = Motor(port)
        print(name, "ready")
    except OSError:
        print(name, "not available")

print("dispatcher ready")

while True:
    try:
        line = input().strip()
    except EOFError:
        break
    if not line:
        continue
    if line == "exit":
        print("exit")
        break
    parts = line.split()
    motor = motors.get(parts[0])
    if motor is None or len(parts) < 2:
        print("invalid:", line)
        continue
    if parts[1] == "run" and len(parts) == 3:
        motor.run(int(parts[2]))
    elif parts[1] == "stop":
        motor.stop()
    else:
        print("invalid:", line)

for motor in motors.values():
    motor.stop()
`

// SelfTestProgram runs each motor briefly in both directions so the
// operator can verify wiring before teleoperating.
const SelfTestProgram = `from pybricks.hubs import PrimeHub
from pybricks.pupdevices import Motor
from pybricks.parameters import Port
from pybricks.tools import wait

hub = PrimeHub()

def test(name, port, ms):
    try:
        motor = Motor(port)
    except OSError:
        print(name, "not found")
        return
    print("testing", name)
    motor.run(100)
    wait(ms)
    motor.run(-100)
    wait(ms)
    motor.stop()

test("motorA", Port.A, 300)
test("motorC", Port.C, 300)
test("motorE", Port.E, 400)
print("self-test complete")
`
